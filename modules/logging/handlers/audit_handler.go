package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/duty/domain/duty"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/node"
	"github.com/iota-uz/railway-dispatch/modules/logging/domain/entities/auditlog"
	"github.com/iota-uz/railway-dispatch/pkg/eventbus"
)

type recorder interface {
	Record(ctx context.Context, entry *auditlog.AuditLog) error
}

// AuditEventsHandler turns domain events into audit log entries.
type AuditEventsHandler struct {
	service recorder
}

func NewAuditEventsHandler(service recorder) *AuditEventsHandler {
	return &AuditEventsHandler{service: service}
}

func RegisterAuditEventHandlers(bus eventbus.EventBus, service recorder) *AuditEventsHandler {
	h := NewAuditEventsHandler(service)
	bus.Subscribe(h.onUserRegistered)
	bus.Subscribe(h.onUserConfirmed)
	bus.Subscribe(h.onUserDeleted)
	bus.Subscribe(h.onLoggedIn)
	bus.Subscribe(h.onNodeDeleted)
	bus.Subscribe(h.onDutyTaken)
	bus.Subscribe(h.onDutyPreempted)
	bus.Subscribe(h.onDutyPassed)
	bus.Subscribe(h.onLoggedOut)
	return h
}

func (h *AuditEventsHandler) record(ctx context.Context, event, userID string, at time.Time, fields map[string]string) {
	_ = h.service.Record(ctx, &auditlog.AuditLog{
		Event:     event,
		UserID:    userID,
		Fields:    fields,
		CreatedAt: at,
	})
}

func (h *AuditEventsHandler) onUserRegistered(ctx context.Context, e *user.RegisteredEvent) {
	h.record(ctx, "user.registered", e.UserID, e.At, map[string]string{
		"login":         e.Login,
		"work-poligons": strconv.Itoa(e.WorkPoligons),
	})
}

func (h *AuditEventsHandler) onUserConfirmed(ctx context.Context, e *user.ConfirmedEvent) {
	h.record(ctx, "user.confirmed", e.UserID, e.At, nil)
}

func (h *AuditEventsHandler) onUserDeleted(ctx context.Context, e *user.DeletedEvent) {
	h.record(ctx, "user.deleted", e.UserID, e.At, map[string]string{
		"login":         e.Login,
		"work-poligons": strconv.FormatInt(e.WorkPoligons, 10),
	})
}

func (h *AuditEventsHandler) onLoggedIn(ctx context.Context, e *user.LoggedInEvent) {
	h.record(ctx, "session.login", e.UserID, e.At, map[string]string{"app": e.Application})
}

func (h *AuditEventsHandler) onNodeDeleted(ctx context.Context, e *node.DeletedEvent) {
	h.record(ctx, "infra.node_deleted", "", e.DeletedAt, map[string]string{
		"node-type": string(e.Type),
		"node-id":   strconv.FormatInt(e.ID, 10),
	})
}

func (h *AuditEventsHandler) onDutyTaken(ctx context.Context, e *duty.TakenEvent) {
	h.record(ctx, "duty.taken", e.UserID, e.TakenAt, map[string]string{
		"work-poligon": e.WorkPoligon.Key(),
		"credentials":  e.Credentials.Key(),
		"preempted":    strconv.Itoa(len(e.Preempted)),
	})
}

func (h *AuditEventsHandler) onDutyPreempted(ctx context.Context, e *duty.PreemptedEvent) {
	h.record(ctx, "duty.preempted", e.UserID, e.PassedAt, map[string]string{
		"work-poligon": e.WorkPoligon.Key(),
		"credentials":  e.Credentials.Key(),
		"by":           e.By,
	})
}

func (h *AuditEventsHandler) onDutyPassed(ctx context.Context, e *duty.PassedEvent) {
	h.record(ctx, "duty.passed", e.UserID, e.PassedAt, map[string]string{
		"work-poligon": e.WorkPoligon.Key(),
		"credentials":  e.Credentials.Key(),
	})
}

func (h *AuditEventsHandler) onLoggedOut(ctx context.Context, e *duty.LoggedOutEvent) {
	h.record(ctx, "session.logout", e.UserID, e.At, map[string]string{
		"app":       e.Application,
		"remaining": strconv.Itoa(e.Remaining),
	})
}
