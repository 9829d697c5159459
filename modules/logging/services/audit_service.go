package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/railway-dispatch/modules/logging/domain/entities/auditlog"
)

const DefaultListLimit = 100

type AuditService struct {
	repo   auditlog.Repository
	logger *logrus.Logger
}

func NewAuditService(repo auditlog.Repository, logger *logrus.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// Record writes entry as an audit log line and stores it. A storage failure
// is logged, the log line is still written.
func (s *AuditService) Record(ctx context.Context, entry *auditlog.AuditLog) error {
	if entry == nil {
		return errors.New("audit log payload is required")
	}
	fields := logrus.Fields{
		"component": "audit",
		"event":     entry.Event,
		"user-id":   entry.UserID,
	}
	for k, v := range entry.Fields {
		fields[k] = v
	}
	s.logger.WithFields(fields).Info("audit")

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.WithError(err).WithField("event", entry.Event).Warn("failed to persist audit log")
		return err
	}
	return nil
}

func (s *AuditService) List(ctx context.Context, limit int) ([]*auditlog.AuditLog, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return s.repo.List(ctx, limit)
}
