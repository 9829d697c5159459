package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/railway-dispatch/modules/logging/domain/entities/auditlog"
	"github.com/iota-uz/railway-dispatch/modules/logging/services"
)

type memRepo struct {
	entries []*auditlog.AuditLog
	err     error
	limit   int
}

func (r *memRepo) Create(_ context.Context, log *auditlog.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, log)
	return nil
}

func (r *memRepo) List(_ context.Context, limit int) ([]*auditlog.AuditLog, error) {
	r.limit = limit
	return r.entries, nil
}

func TestAuditService_Record(t *testing.T) {
	logger, hook := test.NewNullLogger()
	repo := &memRepo{}
	svc := services.NewAuditService(repo, logger)

	err := svc.Record(context.Background(), &auditlog.AuditLog{
		Event:  "duty.taken",
		UserID: "u1",
		Fields: map[string]string{"work-poligon": "station:5"},
	})
	require.NoError(t, err)
	require.Len(t, repo.entries, 1)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "duty.taken", entry.Data["event"])
	assert.Equal(t, "station:5", entry.Data["work-poligon"])

	assert.Error(t, svc.Record(context.Background(), nil))
}

func TestAuditService_RecordStoreFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()
	repo := &memRepo{err: errors.New("redis down")}
	svc := services.NewAuditService(repo, logger)

	err := svc.Record(context.Background(), &auditlog.AuditLog{Event: "user.deleted"})
	require.Error(t, err)
	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestAuditService_ListClampsLimit(t *testing.T) {
	logger, _ := test.NewNullLogger()
	repo := &memRepo{}
	svc := services.NewAuditService(repo, logger)

	_, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, services.DefaultListLimit, repo.limit)

	_, err = svc.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.limit)
}
