// Package kafka publishes admin audit events to a Kafka topic with franz-go.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/OliveiraNt/maned-bridge/internal/config"
	"github.com/OliveiraNt/maned-bridge/internal/domain"
	"github.com/OliveiraNt/maned-bridge/internal/utils"
)

const (
	auditPartitions  int32 = 1
	auditReplication int16 = -1
	produceTimeout         = 5 * time.Second
)

type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type topicCreator interface {
	CreateTopic(ctx context.Context, partitions int32, replicationFactor int16, configs map[string]*string, topic string) (kadm.CreateTopicResponse, error)
}

// AuditSink implements domain.AuditSink. Each event becomes one JSON record
// keyed by cluster and resource.
type AuditSink struct {
	client producer
	topic  string
}

var _ domain.AuditSink = (*AuditSink)(nil)

// Connect creates the producer and makes sure the audit topic exists.
func Connect(ctx context.Context, cfg config.AuditConfig) (*AuditSink, error) {
	if !cfg.Enabled() {
		return nil, errors.New("audit brokers not configured")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create audit client: %w", err)
	}

	if err := EnsureTopic(ctx, kadm.NewClient(client), cfg.Topic); err != nil {
		client.Close()
		return nil, err
	}

	utils.Logger.Info("audit sink connected", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return newAuditSink(client, cfg.Topic), nil
}

func newAuditSink(client producer, topic string) *AuditSink {
	return &AuditSink{client: client, topic: topic}
}

// EnsureTopic creates topic unless it already exists.
func EnsureTopic(ctx context.Context, admin topicCreator, topic string) error {
	cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := admin.CreateTopic(cctx, auditPartitions, auditReplication, nil, topic)
	if err == nil {
		err = resp.Err
	}
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create audit topic %s: %w", topic, err)
	}
	return nil
}

// Record produces ev synchronously.
func (s *AuditSink) Record(ctx context.Context, ev domain.AuditEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, produceTimeout)
	defer cancel()

	rec := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(ev.Cluster + "/" + ev.Resource),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(ev.Action)},
		},
	}
	return s.client.ProduceSync(cctx, rec).FirstErr()
}

// Close flushes nothing and closes the producer.
func (s *AuditSink) Close() {
	s.client.Close()
}
