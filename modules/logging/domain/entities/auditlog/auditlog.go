package auditlog

import (
	"context"
	"time"
)

// AuditLog is one audit trail entry derived from a domain event.
type AuditLog struct {
	Event     string            `json:"event"`
	UserID    string            `json:"userId,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

type Repository interface {
	Create(ctx context.Context, log *AuditLog) error
	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]*AuditLog, error)
}
