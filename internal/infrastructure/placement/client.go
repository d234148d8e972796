package placement

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/OliveiraNt/maned-bridge/internal/domain"
	"github.com/OliveiraNt/maned-bridge/internal/utils"
)

// ErrNoAddress is returned when a call is made without any placement address.
var ErrNoAddress = errors.New("no placement server address configured")

// CallError is a failed placement RPC. Error returns the remote message.
type CallError struct {
	Method  string
	Addr    string
	Code    codes.Code
	Message string
}

func (e *CallError) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return e.Message
}

// Client implements domain.PlacementClient over a connection pool.
type Client struct {
	pool *Pool
}

var _ domain.PlacementClient = (*Client)(nil)

// NewClient creates a client backed by pool.
func NewClient(pool *Pool) *Client {
	return &Client{pool: pool}
}

func (c *Client) CreateTopic(ctx context.Context, addrs []string, req *domain.CreateTopicRequest) (*domain.CommonReply, error) {
	return invoke[domain.CreateTopicRequest, domain.CommonReply](ctx, c.pool, addrs, methodCreateTopic, req)
}

func (c *Client) DeleteTopic(ctx context.Context, addrs []string, req *domain.DeleteTopicRequest) (*domain.CommonReply, error) {
	return invoke[domain.DeleteTopicRequest, domain.CommonReply](ctx, c.pool, addrs, methodDeleteTopic, req)
}

func (c *Client) ListTopic(ctx context.Context, addrs []string, req *domain.ListTopicRequest) (*domain.ListTopicReply, error) {
	return invoke[domain.ListTopicRequest, domain.ListTopicReply](ctx, c.pool, addrs, methodListTopic, req)
}

func (c *Client) CreateUser(ctx context.Context, addrs []string, req *domain.CreateUserRequest) (*domain.CommonReply, error) {
	return invoke[domain.CreateUserRequest, domain.CommonReply](ctx, c.pool, addrs, methodCreateUser, req)
}

func (c *Client) DeleteUser(ctx context.Context, addrs []string, req *domain.DeleteUserRequest) (*domain.CommonReply, error) {
	return invoke[domain.DeleteUserRequest, domain.CommonReply](ctx, c.pool, addrs, methodDeleteUser, req)
}

func (c *Client) ListUser(ctx context.Context, addrs []string, req *domain.ListUserRequest) (*domain.ListUserReply, error) {
	return invoke[domain.ListUserRequest, domain.ListUserReply](ctx, c.pool, addrs, methodListUser, req)
}

// invoke tries addrs in order and moves to the next one only while the
// previous reports codes.Unavailable.
func invoke[Req, Reply any](ctx context.Context, pool *Pool, addrs []string, method string, req *Req) (*Reply, error) {
	if len(addrs) == 0 {
		return nil, ErrNoAddress
	}
	var lastErr error
	for _, addr := range addrs {
		conn, err := pool.Conn(addr)
		if err != nil {
			utils.Logger.Warn("placement dial failed", "addr", addr, "err", err)
			lastErr = &CallError{Method: method, Addr: addr, Code: codes.Unavailable, Message: err.Error()}
			continue
		}
		reply := new(Reply)
		err = conn.Invoke(ctx, method, req, reply)
		if err == nil {
			return reply, nil
		}
		st := status.Convert(err)
		lastErr = &CallError{Method: method, Addr: addr, Code: st.Code(), Message: st.Message()}
		if st.Code() != codes.Unavailable {
			break
		}
		utils.Logger.Warn("placement unavailable, trying next address", "addr", addr, "method", method)
	}
	return nil, lastErr
}
