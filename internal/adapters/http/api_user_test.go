package httpserver

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OliveiraNt/maned-bridge/internal/adapters/http/resp"
	"github.com/OliveiraNt/maned-bridge/internal/domain"
	"github.com/OliveiraNt/maned-bridge/internal/query"
)

func seedUsers(e *testEnv, users ...domain.User) {
	for _, u := range users {
		e.client.Users = append(e.client.Users, string(u.Encode()))
	}
}

func TestAPIUserList_NeverExposesPassword(t *testing.T) {
	t.Parallel()
	e := buildServer(t)
	seedUsers(e,
		domain.User{Username: "bob", Password: "hunter2", IsSuperuser: false},
		domain.User{Username: "alice", Password: "s3cret", IsSuperuser: true},
	)

	rec := e.post(t, routeUserList, map[string]any{"page": 1, "limit": 10})
	body := rec.Body.String()
	require.NotContains(t, body, "password")
	require.NotContains(t, body, "hunter2")
	require.NotContains(t, body, "s3cret")

	page, err := resp.DecodeData[query.PageReply[userRow]](envelope(t, rec))
	require.NoError(t, err)
	require.Equal(t, 2, page.TotalCount)
	// unsorted listings come back in username order
	require.Equal(t, []userRow{{Username: "alice", IsSuperuser: true}, {Username: "bob"}}, page.Data)
}

func TestAPIUserList_FilterSortPaginate(t *testing.T) {
	t.Parallel()
	e := buildServer(t)
	seedUsers(e,
		domain.User{Username: "ann"},
		domain.User{Username: "anna", IsSuperuser: true},
		domain.User{Username: "bob"},
		domain.User{Username: "danny"},
	)

	rec := e.post(t, routeUserList, map[string]any{
		"page":         1,
		"limit":        2,
		"sortField":    "username",
		"sortBy":       "desc",
		"filterField":  "username",
		"filterValues": []string{"ann"},
	})
	page, err := resp.DecodeData[query.PageReply[userRow]](envelope(t, rec))
	require.NoError(t, err)
	require.Equal(t, 2, page.TotalCount)
	require.Equal(t, []string{"anna", "ann"}, usernames(page.Data))

	rec = e.post(t, routeUserList, map[string]any{
		"filterField":  "username",
		"filterValues": []string{"ann"},
		"exactMatch":   "true",
	})
	page, err = resp.DecodeData[query.PageReply[userRow]](envelope(t, rec))
	require.NoError(t, err)
	require.Equal(t, []string{"ann"}, usernames(page.Data))

	rec = e.post(t, routeUserList, map[string]any{
		"filterField":  "isSuperuser",
		"filterValues": []string{"true"},
		"exactMatch":   true,
	})
	page, err = resp.DecodeData[query.PageReply[userRow]](envelope(t, rec))
	require.NoError(t, err)
	require.Equal(t, []string{"anna"}, usernames(page.Data))

	// past the last page
	rec = e.post(t, routeUserList, map[string]any{"page": 9, "limit": 2})
	require.JSONEq(t, `{"code":0,"data":{"data":[],"totalCount":4}}`, rec.Body.String())
}

func TestAPIUserList_EmptyBodyUsesDefaults(t *testing.T) {
	t.Parallel()
	e := buildServer(t)
	for i := 0; i < 12; i++ {
		seedUsers(e, domain.User{Username: "u" + strings.Repeat("x", i)})
	}

	rec := e.post(t, routeUserList, "")
	page, err := resp.DecodeData[query.PageReply[userRow]](envelope(t, rec))
	require.NoError(t, err)
	require.Equal(t, 12, page.TotalCount)
	require.Len(t, page.Data, query.DefaultLimit)
}

func TestAPIUserList_RemoteError(t *testing.T) {
	t.Parallel()
	e := buildServer(t)
	e.client.Err = errors.New("placement down")

	out := envelope(t, e.post(t, routeUserList, map[string]any{}))
	require.False(t, out.IsOK())
	require.Equal(t, resp.CodeError, out.Code)
	require.Equal(t, "placement down", out.Message())
}

func TestAPIUserCreateDelete(t *testing.T) {
	t.Parallel()
	e := buildServer(t)

	rec := e.post(t, routeUserCreate, map[string]any{"username": "alice", "password": "pw", "isSuperuser": true})
	require.JSONEq(t, `{"code":0,"data":"success"}`, rec.Body.String())
	stored, err := domain.DecodeUser(string(e.client.LastCreateUser.Content))
	require.NoError(t, err)
	require.Equal(t, domain.User{Username: "alice", Password: "pw", IsSuperuser: true}, stored)

	rec = e.post(t, routeUserDelete, map[string]any{"username": "alice"})
	require.JSONEq(t, `{"code":0,"data":"success"}`, rec.Body.String())
	require.Equal(t, "alice", e.client.LastDeleteUser.UserName)
	require.Len(t, e.audit.Recorded(), 2)
}

func TestAPIUserMutations_Errors(t *testing.T) {
	t.Parallel()
	e := buildServer(t)

	out := envelope(t, e.post(t, routeUserCreate, map[string]any{"password": "pw"}))
	require.Equal(t, "username is required", out.Message())
	out = envelope(t, e.post(t, routeUserDelete, map[string]any{}))
	require.Equal(t, "username is required", out.Message())
	require.Zero(t, e.client.Calls)

	out = envelope(t, e.post(t, routeUserCreate, "{bad json"))
	require.Equal(t, resp.CodeError, out.Code)
	require.True(t, strings.HasPrefix(out.Message(), "invalid request: "))

	out = envelope(t, e.post(t, routeUserCreate, `{"username":"a","isSuperuser":"maybe"}`))
	require.Equal(t, resp.CodeError, out.Code)

	e.client.Err = errors.New("exists")
	out = envelope(t, e.post(t, routeUserCreate, map[string]any{"username": "alice"}))
	require.Equal(t, "save user error, error message: exists", out.Message())
}

func usernames(rows []userRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Username)
	}
	return out
}
