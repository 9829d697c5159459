package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/railway-dispatch/modules/infra/domain/entities"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/node"
	"github.com/iota-uz/railway-dispatch/modules/infra/infrastructure/persistence"
	"github.com/iota-uz/railway-dispatch/pkg/repo"
)

func rootID(n network, t node.Type) int64 {
	switch t {
	case node.Station:
		return n.stations[0].ID
	case node.StationWorkPlace:
		return n.workPlace.ID
	case node.Block:
		return n.blocks[0].ID
	case node.DncSector:
		return n.dnc.ID
	case node.DncTrainSector:
		return n.dncTrain.ID
	case node.EcdSector:
		return n.ecd.ID
	case node.EcdTrainSector:
		return n.ecdTrain.ID
	}
	return 0
}

// The in-memory store enforces NO ACTION foreign keys, so any dependent the
// graph forgets makes the delete fail.
func TestDeleteSubtree_CompletenessForEveryNodeType(t *testing.T) {
	for _, typ := range persistence.CascadeGraph().Types() {
		if typ == node.UserWorkPoligons {
			continue
		}
		t.Run(string(typ), func(t *testing.T) {
			e := newEnv(t)
			n := e.seed(t)
			id := rootID(n, typ)
			require.NotZero(t, id)

			deleted, err := e.engine.DeleteSubtree(e.ctx, typ, id)
			require.NoError(t, err)
			assert.Equal(t, int64(1), deleted)

			root, err := persistence.CascadeGraph().Node(typ)
			require.NoError(t, err)
			assert.Zero(t, e.tables.Count(root.Table, repo.Row{root.Key: id}))
			for _, d := range root.Dependents {
				assert.Zero(t, e.tables.Count(d.Table, repo.Row{d.Column: id}), "%s.%s", d.Table, d.Column)
			}
		})
	}
}

func TestDeleteSubtree_Idempotent(t *testing.T) {
	e := newEnv(t)
	n := e.seed(t)

	deleted, err := e.engine.DeleteSubtree(e.ctx, node.Station, n.stations[1].ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)
	before := e.tables.Total()

	deleted, err = e.engine.DeleteSubtree(e.ctx, node.Station, n.stations[1].ID)
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Equal(t, before, e.tables.Total())
}

func TestDeleteSubtree_StationTakesItsBlocks(t *testing.T) {
	e := newEnv(t)
	n := e.seed(t)
	middle := n.stations[1]

	_, err := e.engine.DeleteSubtree(e.ctx, node.Station, middle.ID)
	require.NoError(t, err)

	// blocks 1-2 and 2-3 touched the station, 3-4 did not
	assert.Zero(t, e.tables.Count(persistence.BlocksTable, repo.Row{persistence.BlockID: n.blocks[0].ID}))
	assert.Zero(t, e.tables.Count(persistence.BlocksTable, repo.Row{persistence.BlockID: n.blocks[1].ID}))
	assert.Equal(t, 1, e.tables.Count(persistence.BlocksTable, repo.Row{persistence.BlockID: n.blocks[2].ID}))
	assert.Equal(t, 1, e.tables.Count(persistence.DncTrainSectorBlocksTable, nil))
	assert.Equal(t, 3, e.tables.Count(persistence.StationsTable, nil))
	assert.Zero(t, e.tables.Count(persistence.StationWorkPoligonsTable, repo.Row{persistence.StationWorkPoligonUserID: "u2"}))
}

func TestDeleteSubtree_DncSectorKeepsSharedInfrastructure(t *testing.T) {
	e := newEnv(t)
	ctx, r := e.ctx, e.repo

	require.NoError(t, e.tables.Insert(ctx, persistence.DncSectorsTable, repo.Row{
		persistence.DncSectorID:    9,
		persistence.DncSectorTitle: "Sector 9",
	}))
	var stations []int64
	for i := 0; i < 6; i++ {
		st := entities.Station{UNMC: string(rune('A' + i)), Title: "st"}
		require.NoError(t, r.CreateStation(ctx, &st))
		stations = append(stations, st.ID)
	}
	var blocks []int64
	for i := 0; i < 4; i++ {
		b := entities.Block{Title: "b", StationID1: stations[i], StationID2: stations[i+1]}
		require.NoError(t, r.CreateBlock(ctx, &b))
		blocks = append(blocks, b.ID)
	}
	for ts := 0; ts < 2; ts++ {
		train := entities.TrainSector{Kind: entities.Dnc, SectorID: 9, Title: string(rune('X' + ts))}
		require.NoError(t, r.CreateTrainSector(ctx, &train))
		for i := 0; i < 3; i++ {
			require.NoError(t, r.AddTrainSectorStation(ctx, entities.Dnc,
				entities.Member{TrainSectorID: train.ID, ID: stations[ts*3+i], Position: int64(i)}))
		}
		for i := 0; i < 2; i++ {
			require.NoError(t, r.AddTrainSectorBlock(ctx, entities.Dnc,
				entities.Member{TrainSectorID: train.ID, ID: blocks[ts*2+i], Position: int64(i)}))
		}
	}

	deleted, err := e.engine.DeleteSubtree(ctx, node.DncSector, int64(9))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	assert.Zero(t, e.tables.Count(persistence.DncSectorsTable, nil))
	assert.Zero(t, e.tables.Count(persistence.DncTrainSectorsTable, nil))
	assert.Zero(t, e.tables.Count(persistence.DncTrainSectorStationsTable, nil))
	assert.Zero(t, e.tables.Count(persistence.DncTrainSectorBlocksTable, nil))
	assert.Equal(t, 6, e.tables.Count(persistence.StationsTable, nil))
	assert.Equal(t, 4, e.tables.Count(persistence.BlocksTable, nil))
}

func TestDeleteSubtree_UserWorkPoligonsCountsJunctions(t *testing.T) {
	e := newEnv(t)
	e.seed(t)

	removed, err := e.engine.DeleteSubtree(e.ctx, node.UserWorkPoligons, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), removed)

	removed, err = e.engine.DeleteSubtree(e.ctx, node.UserWorkPoligons, "u1")
	require.NoError(t, err)
	assert.Zero(t, removed)

	left, err := e.wp.ListForUser(e.ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func TestDeleteSubtree_UnknownType(t *testing.T) {
	e := newEnv(t)
	_, err := e.engine.DeleteSubtree(e.ctx, node.Type("depot"), int64(1))
	assert.ErrorIs(t, err, node.ErrUnknownType)
}

func TestDeleteSubtree_FailureInsideTransactionRollsBack(t *testing.T) {
	e := newEnv(t)
	n := e.seed(t)
	before := e.tables.Total()

	boom := errors.New("connection reset")
	e.tables.FailWith(func(op, table string) error {
		if op == "delete" && table == persistence.BlocksTable {
			return boom
		}
		return nil
	})

	err := e.tables.InTx(e.ctx, func(ctx context.Context) error {
		_, err := e.engine.DeleteSubtree(ctx, node.Station, n.stations[0].ID)
		return err
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, before, e.tables.Total())
}
