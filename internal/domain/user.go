package domain

import (
	"encoding/json"
	"errors"
)

// User is an MQTT login. Password is stored as given; hashing is the
// placement service's concern.
type User struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	IsSuperuser bool   `json:"isSuperuser"`
}

// Encode returns the content bytes sent to the placement service.
func (u User) Encode() []byte {
	b, _ := json.Marshal(u)
	return b
}

// ErrIncompleteUser is returned for a record without a username.
var ErrIncompleteUser = errors.New("user record has no username")

// DecodeUser parses one serialized user as returned by ListUser.
func DecodeUser(raw string) (User, error) {
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, err
	}
	if u.Username == "" {
		return User{}, ErrIncompleteUser
	}
	return u, nil
}
