package persistence

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/iota-uz/railway-dispatch/modules/logging/domain/entities/auditlog"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

// AuditLogRepository keeps the newest entries in a capped Redis list.
type AuditLogRepository struct {
	client redis.UniversalClient
	key    string
	max    int64
}

var _ auditlog.Repository = (*AuditLogRepository)(nil)

func NewAuditLogRepository(client redis.UniversalClient, prefix string, max int64) *AuditLogRepository {
	return &AuditLogRepository{client: client, key: prefix + ":audit", max: max}
}

func (r *AuditLogRepository) Create(ctx context.Context, log *auditlog.AuditLog) error {
	raw, err := json.Marshal(log)
	if err != nil {
		return errors.Wrap(err, "marshal audit log")
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, r.key, raw)
		pipe.LTrim(ctx, r.key, 0, r.max-1)
		return nil
	})
	if err != nil {
		return serrors.Unavailable("document", err)
	}
	return nil
}

func (r *AuditLogRepository) List(ctx context.Context, limit int) ([]*auditlog.AuditLog, error) {
	if limit <= 0 {
		return []*auditlog.AuditLog{}, nil
	}
	raws, err := r.client.LRange(ctx, r.key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, serrors.Unavailable("document", err)
	}
	out := make([]*auditlog.AuditLog, 0, len(raws))
	for _, raw := range raws {
		entry := &auditlog.AuditLog{}
		if err := json.Unmarshal([]byte(raw), entry); err != nil {
			return nil, errors.Wrap(err, "unmarshal audit log")
		}
		out = append(out, entry)
	}
	return out, nil
}
