package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/railway-dispatch/modules/infra/domain/entities"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/modules/infra/infrastructure/persistence"
	"github.com/iota-uz/railway-dispatch/modules/infra/services"
	"github.com/iota-uz/railway-dispatch/pkg/eventbus"
	"github.com/iota-uz/railway-dispatch/pkg/itf"
)

type env struct {
	ctx     context.Context
	tables  *itf.MemTables
	repo    *persistence.InfraRepository
	wp      *persistence.WorkPoligonRepository
	engine  *services.CascadeEngine
	service *services.InfrastructureService
	bus     eventbus.EventBus
}

func newEnv(t *testing.T) *env {
	t.Helper()
	tables := itf.NewMemTables(persistence.Schema()...)
	e := &env{
		ctx:    itf.Ctx(t),
		tables: tables,
		repo:   persistence.NewInfraRepository(tables),
		wp:     persistence.NewWorkPoligonRepository(tables),
		engine: services.NewCascadeEngine(persistence.CascadeGraph(), tables),
		bus:    eventbus.NewEventPublisher(itf.Logger(t)),
	}
	e.service = services.NewInfrastructureService(e.repo, e.wp, e.engine, tables, e.bus)
	return e
}

// network is a small but complete railway: every table holds rows.
type network struct {
	stations  []entities.Station
	workPlace entities.WorkPlace
	blocks    []entities.Block
	dnc, dnc2 entities.Sector
	ecd, ecd2 entities.Sector
	dncTrain  entities.TrainSector
	ecdTrain  entities.TrainSector
	division  entities.StructuralDivision
}

func (e *env) seed(t *testing.T) network {
	t.Helper()
	ctx, r := e.ctx, e.repo
	var n network

	for i := 1; i <= 4; i++ {
		st := entities.Station{UNMC: fmt.Sprintf("%d", i), Title: fmt.Sprintf("Station %d", i)}
		require.NoError(t, r.CreateStation(ctx, &st))
		n.stations = append(n.stations, st)
		require.NoError(t, r.CreateTrack(ctx, &entities.Track{StationID: st.ID, Name: "1"}))
	}
	n.workPlace = entities.WorkPlace{StationID: n.stations[0].ID, Name: "DSP", Type: "dsp"}
	require.NoError(t, r.CreateWorkPlace(ctx, &n.workPlace))

	for i := 0; i < 3; i++ {
		b := entities.Block{
			Title:      fmt.Sprintf("%d-%d", i+1, i+2),
			StationID1: n.stations[i].ID,
			StationID2: n.stations[i+1].ID,
		}
		require.NoError(t, r.CreateBlock(ctx, &b))
		n.blocks = append(n.blocks, b)
	}

	n.dnc = entities.Sector{Kind: entities.Dnc, Title: "DNC North"}
	n.dnc2 = entities.Sector{Kind: entities.Dnc, Title: "DNC South"}
	n.ecd = entities.Sector{Kind: entities.Ecd, Title: "ECD North"}
	n.ecd2 = entities.Sector{Kind: entities.Ecd, Title: "ECD South"}
	for _, s := range []*entities.Sector{&n.dnc, &n.dnc2, &n.ecd, &n.ecd2} {
		require.NoError(t, r.CreateSector(ctx, s))
	}
	require.NoError(t, r.LinkAdjacentSectors(ctx, entities.Dnc, n.dnc.ID, n.dnc2.ID))
	require.NoError(t, r.LinkAdjacentSectors(ctx, entities.Dnc, n.dnc2.ID, n.dnc.ID))
	require.NoError(t, r.LinkAdjacentSectors(ctx, entities.Ecd, n.ecd2.ID, n.ecd.ID))
	require.NoError(t, r.LinkNearestSectors(ctx, n.dnc.ID, n.ecd.ID))
	n.division = entities.StructuralDivision{SectorID: n.ecd.ID, Title: "Substation"}
	require.NoError(t, r.CreateStructuralDivision(ctx, &n.division))

	n.dncTrain = entities.TrainSector{Kind: entities.Dnc, SectorID: n.dnc.ID, Title: "T1"}
	n.ecdTrain = entities.TrainSector{Kind: entities.Ecd, SectorID: n.ecd.ID, Title: "E1"}
	require.NoError(t, r.CreateTrainSector(ctx, &n.dncTrain))
	require.NoError(t, r.CreateTrainSector(ctx, &n.ecdTrain))
	for i, st := range n.stations {
		m := entities.Member{ID: st.ID, Position: int64(i)}
		m.TrainSectorID = n.dncTrain.ID
		require.NoError(t, r.AddTrainSectorStation(ctx, entities.Dnc, m))
		m.TrainSectorID = n.ecdTrain.ID
		require.NoError(t, r.AddTrainSectorStation(ctx, entities.Ecd, m))
	}
	for i, b := range n.blocks {
		m := entities.Member{ID: b.ID, Position: int64(i)}
		m.TrainSectorID = n.dncTrain.ID
		require.NoError(t, r.AddTrainSectorBlock(ctx, entities.Dnc, m))
		m.TrainSectorID = n.ecdTrain.ID
		require.NoError(t, r.AddTrainSectorBlock(ctx, entities.Ecd, m))
	}

	require.NoError(t, e.wp.Assign(ctx, "u1",
		workpoligon.New(workpoligon.Station, n.stations[0].ID),
		workpoligon.NewWorkPlace(n.stations[0].ID, n.workPlace.ID),
		workpoligon.New(workpoligon.DncSector, n.dnc.ID),
		workpoligon.New(workpoligon.EcdSector, n.ecd.ID),
	))
	require.NoError(t, e.wp.Assign(ctx, "u2",
		workpoligon.New(workpoligon.Station, n.stations[1].ID),
		workpoligon.New(workpoligon.DncSector, n.dnc2.ID),
	))
	return n
}
