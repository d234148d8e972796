package testutil

import (
	"context"
	"sync"

	"github.com/OliveiraNt/maned-bridge/internal/config"
	"github.com/OliveiraNt/maned-bridge/internal/domain"
)

// StaticConfig is a domain.ConfigProvider whose snapshot tests can swap.
type StaticConfig struct {
	mu  sync.RWMutex
	cfg config.BrokerConfig
}

// NewStaticConfig returns a provider for a cluster named clusterName talking
// to the given placement addresses.
func NewStaticConfig(clusterName string, addrs ...string) *StaticConfig {
	return &StaticConfig{cfg: config.BrokerConfig{
		ClusterName: clusterName,
		Placement:   config.PlacementConfig{Server: addrs},
	}}
}

func (s *StaticConfig) Current() config.BrokerConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// Set replaces the snapshot.
func (s *StaticConfig) Set(cfg config.BrokerConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// FakePlacementClient is a domain.PlacementClient with canned replies. It
// records the last request of each kind and the addresses it was given.
type FakePlacementClient struct {
	mu sync.Mutex

	Topics []string
	Users  []string
	Err    error

	Addrs           []string
	LastCreateTopic *domain.CreateTopicRequest
	LastDeleteTopic *domain.DeleteTopicRequest
	LastListTopic   *domain.ListTopicRequest
	LastCreateUser  *domain.CreateUserRequest
	LastDeleteUser  *domain.DeleteUserRequest
	LastListUser    *domain.ListUserRequest
	Calls           int
}

func NewFakePlacementClient() *FakePlacementClient {
	return &FakePlacementClient{}
}

func (f *FakePlacementClient) record(addrs []string) {
	f.Calls++
	f.Addrs = append([]string(nil), addrs...)
}

func (f *FakePlacementClient) CreateTopic(_ context.Context, addrs []string, req *domain.CreateTopicRequest) (*domain.CommonReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(addrs)
	f.LastCreateTopic = req
	if f.Err != nil {
		return nil, f.Err
	}
	return &domain.CommonReply{}, nil
}

func (f *FakePlacementClient) DeleteTopic(_ context.Context, addrs []string, req *domain.DeleteTopicRequest) (*domain.CommonReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(addrs)
	f.LastDeleteTopic = req
	if f.Err != nil {
		return nil, f.Err
	}
	return &domain.CommonReply{}, nil
}

func (f *FakePlacementClient) ListTopic(_ context.Context, addrs []string, req *domain.ListTopicRequest) (*domain.ListTopicReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(addrs)
	f.LastListTopic = req
	if f.Err != nil {
		return nil, f.Err
	}
	return &domain.ListTopicReply{Topics: append([]string(nil), f.Topics...)}, nil
}

func (f *FakePlacementClient) CreateUser(_ context.Context, addrs []string, req *domain.CreateUserRequest) (*domain.CommonReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(addrs)
	f.LastCreateUser = req
	if f.Err != nil {
		return nil, f.Err
	}
	return &domain.CommonReply{}, nil
}

func (f *FakePlacementClient) DeleteUser(_ context.Context, addrs []string, req *domain.DeleteUserRequest) (*domain.CommonReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(addrs)
	f.LastDeleteUser = req
	if f.Err != nil {
		return nil, f.Err
	}
	return &domain.CommonReply{}, nil
}

func (f *FakePlacementClient) ListUser(_ context.Context, addrs []string, req *domain.ListUserRequest) (*domain.ListUserReply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(addrs)
	f.LastListUser = req
	if f.Err != nil {
		return nil, f.Err
	}
	return &domain.ListUserReply{Users: append([]string(nil), f.Users...)}, nil
}

// FakeAuditSink collects audit events in memory.
type FakeAuditSink struct {
	mu     sync.Mutex
	Events []domain.AuditEvent
	Err    error
}

func (f *FakeAuditSink) Record(_ context.Context, ev domain.AuditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Events = append(f.Events, ev)
	return nil
}

// Recorded returns a copy of the collected events.
func (f *FakeAuditSink) Recorded() []domain.AuditEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.AuditEvent(nil), f.Events...)
}
