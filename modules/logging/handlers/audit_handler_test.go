package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/duty/domain/duty"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/node"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/modules/logging/domain/entities/auditlog"
	"github.com/iota-uz/railway-dispatch/pkg/eventbus"
)

type stubAuditService struct {
	created []*auditlog.AuditLog
}

func (s *stubAuditService) Record(_ context.Context, log *auditlog.AuditLog) error {
	s.created = append(s.created, log)
	return nil
}

func TestAuditEventsHandler_RecordsDomainEvents(t *testing.T) {
	bus := eventbus.NewEventPublisher(nil)
	stub := &stubAuditService{}
	RegisterAuditEventHandlers(bus, stub)

	ctx := context.Background()
	at := time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)
	station := workpoligon.New(workpoligon.Station, 5)

	bus.Publish(ctx, &user.RegisteredEvent{UserID: "u1", Login: "dsp1", WorkPoligons: 2, At: at})
	bus.Publish(ctx, &node.DeletedEvent{Type: node.Station, ID: 5, DeletedAt: at})
	bus.Publish(ctx, &duty.PreemptedEvent{
		UserID:      "u1",
		By:          "u2",
		WorkPoligon: station,
		Credentials: user.NewCredentialSet("DSP"),
		PassedAt:    at,
	})

	require.Len(t, stub.created, 3)
	assert.Equal(t, "user.registered", stub.created[0].Event)
	assert.Equal(t, "2", stub.created[0].Fields["work-poligons"])
	assert.Equal(t, "infra.node_deleted", stub.created[1].Event)
	assert.Equal(t, "station", stub.created[1].Fields["node-type"])
	assert.Empty(t, stub.created[1].UserID)

	preempted := stub.created[2]
	assert.Equal(t, "duty.preempted", preempted.Event)
	assert.Equal(t, "u1", preempted.UserID)
	assert.Equal(t, "u2", preempted.Fields["by"])
	assert.Equal(t, station.Key(), preempted.Fields["work-poligon"])
	assert.True(t, preempted.CreatedAt.Equal(at))
}

func TestAuditEventsHandler_IgnoresUnrelatedEvents(t *testing.T) {
	bus := eventbus.NewEventPublisher(nil)
	stub := &stubAuditService{}
	RegisterAuditEventHandlers(bus, stub)

	bus.Publish(context.Background(), "position.created")
	assert.Empty(t, stub.created)
}
