package application

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/OliveiraNt/maned-bridge/internal/cache"
	"github.com/OliveiraNt/maned-bridge/internal/domain"
	"github.com/OliveiraNt/maned-bridge/internal/utils"
)

// TopicService manages MQTT topic metadata stored in the placement service.
type TopicService struct {
	cfg    domain.ConfigProvider
	client domain.PlacementClient
	audit  domain.AuditSink
	topics atomic.Pointer[cache.Map[string, domain.Topic]]
}

// NewTopicService creates a new topic service. audit may be nil.
func NewTopicService(cfg domain.ConfigProvider, client domain.PlacementClient, audit domain.AuditSink) *TopicService {
	s := &TopicService{
		cfg:    cfg,
		client: client,
		audit:  auditOrNoop(audit),
	}
	s.topics.Store(cache.New[string, domain.Topic](0))
	return s
}

// target reads the cluster name and placement addresses for this call.
func target(cfg domain.ConfigProvider) (string, []string, error) {
	current := cfg.Current()
	if len(current.Placement.Server) == 0 {
		return "", nil, ErrNoPlacementServer
	}
	return current.ClusterName, current.Placement.Server, nil
}

// Save creates a topic record with a fresh id.
func (s *TopicService) Save(ctx context.Context, topicName string) error {
	if topicName == "" {
		return ErrInvalidTopicName
	}
	cluster, addrs, err := target(s.cfg)
	if err != nil {
		return err
	}

	topic := domain.NewTopic(topicName)
	req := &domain.CreateTopicRequest{
		ClusterName: cluster,
		TopicName:   topicName,
		Content:     topic.Encode(),
	}
	if _, err := s.client.CreateTopic(ctx, addrs, req); err != nil {
		utils.Logger.Error("save topic failed", "cluster", cluster, "topic", topicName, "err", err)
		return fmt.Errorf("save topic error, error message: %w", err)
	}

	utils.Logger.Info("topic saved", "cluster", cluster, "topic", topicName, "id", topic.TopicID)
	record(ctx, s.audit, domain.AuditTopicCreate, cluster, topicName)
	return nil
}

// Delete removes a topic. The placement service decides what deleting an
// unknown topic means.
func (s *TopicService) Delete(ctx context.Context, topicName string) error {
	if topicName == "" {
		return ErrInvalidTopicName
	}
	cluster, addrs, err := target(s.cfg)
	if err != nil {
		return err
	}

	req := &domain.DeleteTopicRequest{ClusterName: cluster, TopicName: topicName}
	if _, err := s.client.DeleteTopic(ctx, addrs, req); err != nil {
		utils.Logger.Error("delete topic failed", "cluster", cluster, "topic", topicName, "err", err)
		return fmt.Errorf("delete topic error, error message: %w", err)
	}

	s.topics.Load().Delete(topicName)
	utils.Logger.Info("topic deleted", "cluster", cluster, "topic", topicName)
	record(ctx, s.audit, domain.AuditTopicDelete, cluster, topicName)
	return nil
}

// List fetches every topic of the cluster. Entries that fail to decode are
// skipped. The returned map also becomes the service cache.
func (s *TopicService) List(ctx context.Context) (*cache.Map[string, domain.Topic], error) {
	cluster, addrs, err := target(s.cfg)
	if err != nil {
		return nil, err
	}

	reply, err := s.client.ListTopic(ctx, addrs, &domain.ListTopicRequest{ClusterName: cluster})
	if err != nil {
		utils.Logger.Error("list topics failed", "cluster", cluster, "err", err)
		return nil, err
	}

	topics := cache.New[string, domain.Topic](len(reply.Topics))
	for _, raw := range reply.Topics {
		topic, err := domain.DecodeTopic(raw)
		if err != nil {
			utils.Logger.Debug("skipping malformed topic", "cluster", cluster, "err", err)
			continue
		}
		topics.Set(topic.TopicName, topic)
	}
	s.topics.Store(topics)
	return topics, nil
}

// Get returns the named topic, or nil when the cluster has no such topic.
func (s *TopicService) Get(ctx context.Context, topicName string) (*domain.Topic, error) {
	if topicName == "" {
		return nil, ErrInvalidTopicName
	}
	cluster, addrs, err := target(s.cfg)
	if err != nil {
		return nil, err
	}

	reply, err := s.client.ListTopic(ctx, addrs, &domain.ListTopicRequest{ClusterName: cluster, TopicName: topicName})
	if err != nil {
		utils.Logger.Error("get topic failed", "cluster", cluster, "topic", topicName, "err", err)
		return nil, err
	}
	if len(reply.Topics) == 0 {
		return nil, nil
	}

	topic, err := domain.DecodeTopic(reply.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("decode topic %s: %w", topicName, err)
	}
	return &topic, nil
}

// Cached returns the topics seen by the last List, minus later deletions.
// It is a hint, not a read of placement: a List racing a Delete may store a
// snapshot that still holds the deleted topic until the next List.
func (s *TopicService) Cached() *cache.Map[string, domain.Topic] {
	return s.topics.Load()
}
