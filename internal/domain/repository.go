package domain

import (
	"context"
	"time"

	"github.com/OliveiraNt/maned-bridge/internal/config"
)

// ConfigProvider hands out the current broker configuration. Callers read it
// on every operation so live reloads take effect immediately.
type ConfigProvider interface {
	Current() config.BrokerConfig
}

// AuditAction names an admin mutation.
type AuditAction string

const (
	AuditTopicCreate AuditAction = "topic.create"
	AuditTopicDelete AuditAction = "topic.delete"
	AuditUserCreate  AuditAction = "user.create"
	AuditUserDelete  AuditAction = "user.delete"
)

// AuditEvent records one successful admin mutation.
type AuditEvent struct {
	ID       string      `json:"id"`
	Action   AuditAction `json:"action"`
	Cluster  string      `json:"cluster"`
	Resource string      `json:"resource"`
	At       time.Time   `json:"at"`
}

// AuditSink receives audit events. Failures must not affect the mutation.
type AuditSink interface {
	Record(ctx context.Context, ev AuditEvent) error
}
