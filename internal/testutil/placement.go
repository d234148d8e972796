package testutil

import (
	"context"
	"net"
	"slices"
	"sync"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/OliveiraNt/maned-bridge/internal/domain"
	"github.com/OliveiraNt/maned-bridge/internal/infrastructure/placement"
)

// MemoryPlacement is an in-memory placement.Server. Entries are stored as the
// raw content strings the bridge sent, so tests can plant malformed ones.
type MemoryPlacement struct {
	mu     sync.Mutex
	topics map[string]map[string]string
	users  map[string]map[string]string
}

var _ placement.Server = (*MemoryPlacement)(nil)

func NewMemoryPlacement() *MemoryPlacement {
	return &MemoryPlacement{
		topics: map[string]map[string]string{},
		users:  map[string]map[string]string{},
	}
}

// PutRawTopic stores raw under name without validation.
func (m *MemoryPlacement) PutRawTopic(cluster, name, raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	put(m.topics, cluster, name, raw)
}

func (m *MemoryPlacement) CreateTopic(_ context.Context, req *domain.CreateTopicRequest) (*domain.CommonReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.topics[req.ClusterName][req.TopicName]; ok {
		return nil, status.Errorf(codes.AlreadyExists, "topic %s already exists", req.TopicName)
	}
	put(m.topics, req.ClusterName, req.TopicName, string(req.Content))
	return &domain.CommonReply{}, nil
}

func (m *MemoryPlacement) DeleteTopic(_ context.Context, req *domain.DeleteTopicRequest) (*domain.CommonReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.topics[req.ClusterName][req.TopicName]; !ok {
		return nil, status.Errorf(codes.NotFound, "topic %s does not exist", req.TopicName)
	}
	delete(m.topics[req.ClusterName], req.TopicName)
	return &domain.CommonReply{}, nil
}

func (m *MemoryPlacement) ListTopic(_ context.Context, req *domain.ListTopicRequest) (*domain.ListTopicReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &domain.ListTopicReply{Topics: list(m.topics, req.ClusterName, req.TopicName)}, nil
}

func (m *MemoryPlacement) CreateUser(_ context.Context, req *domain.CreateUserRequest) (*domain.CommonReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	put(m.users, req.ClusterName, req.UserName, string(req.Content))
	return &domain.CommonReply{}, nil
}

func (m *MemoryPlacement) DeleteUser(_ context.Context, req *domain.DeleteUserRequest) (*domain.CommonReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users[req.ClusterName], req.UserName)
	return &domain.CommonReply{}, nil
}

func (m *MemoryPlacement) ListUser(_ context.Context, req *domain.ListUserRequest) (*domain.ListUserReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &domain.ListUserReply{Users: list(m.users, req.ClusterName, req.UserName)}, nil
}

func put(store map[string]map[string]string, cluster, name, raw string) {
	if store[cluster] == nil {
		store[cluster] = map[string]string{}
	}
	store[cluster][name] = raw
}

// list returns entries ordered by name; an empty name matches all.
func list(store map[string]map[string]string, cluster, name string) []string {
	entries := store[cluster]
	if name != "" {
		if raw, ok := entries[name]; ok {
			return []string{raw}
		}
		return []string{}
	}
	names := make([]string, 0, len(entries))
	for n := range entries {
		names = append(names, n)
	}
	slices.Sort(names)
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, entries[n])
	}
	return out
}

// StartPlacementServer serves srv on a loopback listener and returns its
// address. The server stops when the test ends.
func StartPlacementServer(t *testing.T, srv placement.Server) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	grpcServer := grpc.NewServer()
	placement.RegisterServer(grpcServer, srv)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()

	t.Cleanup(func() {
		grpcServer.Stop()
		<-serveErr
	})
	return listener.Addr().String()
}

// ClosedAddr returns a loopback address nothing listens on.
func ClosedAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()
	return addr
}
