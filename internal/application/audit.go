package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/OliveiraNt/maned-bridge/internal/domain"
	"github.com/OliveiraNt/maned-bridge/internal/utils"
)

type noopAudit struct{}

func (noopAudit) Record(context.Context, domain.AuditEvent) error { return nil }

func auditOrNoop(sink domain.AuditSink) domain.AuditSink {
	if sink == nil {
		return noopAudit{}
	}
	return sink
}

// record publishes an audit event. A failing sink is logged and ignored.
func record(ctx context.Context, sink domain.AuditSink, action domain.AuditAction, cluster, resource string) {
	ev := domain.AuditEvent{
		ID:       uuid.NewString(),
		Action:   action,
		Cluster:  cluster,
		Resource: resource,
		At:       time.Now().UTC(),
	}
	if err := sink.Record(ctx, ev); err != nil {
		utils.Logger.Warn("audit record failed", "action", action, "resource", resource, "err", err)
	}
}
