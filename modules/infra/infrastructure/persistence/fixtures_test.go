package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/railway-dispatch/modules/infra/domain/entities"
	"github.com/iota-uz/railway-dispatch/modules/infra/infrastructure/persistence"
	"github.com/iota-uz/railway-dispatch/pkg/itf"
)

func newStore(t *testing.T) (context.Context, *itf.MemTables, *persistence.InfraRepository) {
	t.Helper()
	tables := itf.NewMemTables(persistence.Schema()...)
	return itf.Ctx(t), tables, persistence.NewInfraRepository(tables)
}

func mustStation(t *testing.T, ctx context.Context, r *persistence.InfraRepository, unmc string) entities.Station {
	t.Helper()
	s := entities.Station{UNMC: unmc, Title: "Station " + unmc}
	require.NoError(t, r.CreateStation(ctx, &s))
	return s
}
