package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/OliveiraNt/maned-bridge/internal/query"
)

const maxBodyBytes = 1 << 20

// listRequest is the body shared by every list endpoint.
type listRequest struct {
	Page         int      `json:"page"`
	Limit        int      `json:"limit"`
	SortField    string   `json:"sortField"`
	SortBy       string   `json:"sortBy"`
	FilterField  string   `json:"filterField"`
	FilterValues []string `json:"filterValues"`
	ExactMatch   flexBool `json:"exactMatch"`
}

func (l listRequest) options() query.Options {
	return query.NewOptions(l.Page, l.Limit, l.SortField, l.SortBy, l.FilterField, l.FilterValues, bool(l.ExactMatch))
}

type createUserRequest struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	IsSuperuser flexBool `json:"isSuperuser"`
}

type deleteUserRequest struct {
	Username string `json:"username"`
}

type topicNameRequest struct {
	TopicName string `json:"topicName"`
}

// flexBool accepts a JSON bool or the strings "true" and "false".
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected boolean, got %s", data)
	}
	if s == "" {
		*b = false
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("expected boolean, got %q", s)
	}
	*b = flexBool(v)
	return nil
}

var errTrailingData = errors.New("unexpected data after JSON body")

// decodeBody reads a single JSON value into v. An empty body leaves v
// untouched; anything after the value is rejected.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid request: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request: %w", errTrailingData)
	}
	return nil
}
