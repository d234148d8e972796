// Package domain defines the broker metadata entities managed through the
// admin bridge (topics and users), the placement service contract they are
// stored behind, and the collaborator interfaces the application layer
// depends on.
package domain

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// Topic is the MQTT topic metadata held by the placement service.
// TopicName is the identity key within a cluster.
type Topic struct {
	TopicID                string `json:"topicId"`
	TopicName              string `json:"topicName"`
	RetainMessage          []byte `json:"retainMessage,omitempty"`
	RetainMessageExpiredAt uint64 `json:"retainMessageExpiredAt"`
}

// NewTopic builds a fresh topic record with a generated id.
func NewTopic(name string) Topic {
	return Topic{
		TopicID:   uuid.NewString(),
		TopicName: name,
	}
}

// Encode returns the content bytes sent to the placement service.
func (t Topic) Encode() []byte {
	b, _ := json.Marshal(t)
	return b
}

// ErrIncompleteTopic is returned for a record without an id or a name.
var ErrIncompleteTopic = errors.New("topic record has no topicId or topicName")

// DecodeTopic parses one serialized topic as returned by ListTopic.
func DecodeTopic(raw string) (Topic, error) {
	var t Topic
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return Topic{}, err
	}
	if t.TopicID == "" || t.TopicName == "" {
		return Topic{}, ErrIncompleteTopic
	}
	return t, nil
}
