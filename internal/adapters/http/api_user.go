package httpserver

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/OliveiraNt/maned-bridge/internal/adapters/http/resp"
	"github.com/OliveiraNt/maned-bridge/internal/application"
	"github.com/OliveiraNt/maned-bridge/internal/domain"
	"github.com/OliveiraNt/maned-bridge/internal/query"
	"github.com/OliveiraNt/maned-bridge/internal/utils"
)

// userRow is the list projection of a user. It has no password field.
type userRow struct {
	Username    string `json:"username"`
	IsSuperuser bool   `json:"isSuperuser"`
}

func (u userRow) Field(name string) (string, bool) {
	switch name {
	case "username":
		return u.Username, true
	case "isSuperuser":
		return strconv.FormatBool(u.IsSuperuser), true
	}
	return "", false
}

// userRows projects users ordered by username.
func userRows(users map[string]domain.User) []userRow {
	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	slices.Sort(names)

	rows := make([]userRow, 0, len(names))
	for _, name := range names {
		u := users[name]
		rows = append(rows, userRow{Username: u.Username, IsSuperuser: u.IsSuperuser})
	}
	return rows
}

func (s *Server) apiListUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req listRequest
	if err := decodeBody(w, r, &req); err != nil {
		utils.Logger.Warn("api list users bad request", "err", err)
		writeResponse(s, w, r, start, fail(err))
		return
	}

	users, err := s.authDriver.ReadAllUser(r.Context())
	if err != nil {
		utils.Logger.Error("api list users failed", "err", err)
		writeResponse(s, w, r, start, fail(err))
		return
	}

	page := query.Apply(userRows(users), req.options())
	writeResponse(s, w, r, start, resp.OK(page))
}

func (s *Server) apiCreateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req createUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		utils.Logger.Warn("api create user bad request", "err", err)
		writeResponse(s, w, r, start, fail(err))
		return
	}
	if req.Username == "" {
		writeResponse(s, w, r, start, fail(application.ErrInvalidUsername))
		return
	}

	user := domain.User{
		Username:    req.Username,
		Password:    req.Password,
		IsSuperuser: bool(req.IsSuperuser),
	}
	if err := s.authDriver.SaveUser(r.Context(), user); err != nil {
		writeResponse(s, w, r, start, fail(err))
		return
	}
	writeResponse(s, w, r, start, resp.Success())
}

func (s *Server) apiDeleteUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req deleteUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		utils.Logger.Warn("api delete user bad request", "err", err)
		writeResponse(s, w, r, start, fail(err))
		return
	}
	if req.Username == "" {
		writeResponse(s, w, r, start, fail(application.ErrInvalidUsername))
		return
	}

	if err := s.authDriver.DeleteUser(r.Context(), req.Username); err != nil {
		writeResponse(s, w, r, start, fail(err))
		return
	}
	writeResponse(s, w, r, start, resp.Success())
}
