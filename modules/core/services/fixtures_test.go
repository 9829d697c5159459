package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/role"
	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/core/infrastructure/persistence"
	"github.com/iota-uz/railway-dispatch/modules/core/services"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/entities"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	infrapersistence "github.com/iota-uz/railway-dispatch/modules/infra/infrastructure/persistence"
	infraservices "github.com/iota-uz/railway-dispatch/modules/infra/services"
	"github.com/iota-uz/railway-dispatch/pkg/eventbus"
	"github.com/iota-uz/railway-dispatch/pkg/itf"
)

const app = "dy58"

type env struct {
	ctx      context.Context
	clock    *itf.Clock
	tables   *itf.MemTables
	infra    *infraservices.InfrastructureService
	users    *persistence.InmemUserRepository
	roles    *persistence.InmemRoleRepository
	tokens   *services.TokenService
	sessions *services.SessionRegistry
	bus      eventbus.EventBus
	auth     *services.AuthService
	service  *services.UserService
	station  entities.Station
	sector   entities.Sector
}

func newEnv(t *testing.T, order string) *env {
	t.Helper()
	e := &env{
		ctx:      itf.Ctx(t),
		clock:    itf.NewClock(time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)),
		tables:   itf.NewMemTables(infrapersistence.Schema()...),
		users:    persistence.NewInmemUserRepository(),
		roles:    persistence.NewInmemRoleRepository(),
		sessions: services.NewSessionRegistry(),
		bus:      eventbus.NewEventPublisher(itf.Logger(t)),
	}
	infraRepo := infrapersistence.NewInfraRepository(e.tables)
	e.infra = infraservices.NewInfrastructureService(
		infraRepo,
		infrapersistence.NewWorkPoligonRepository(e.tables),
		infraservices.NewCascadeEngine(infrapersistence.CascadeGraph(), e.tables),
		e.tables,
		e.bus,
	)
	e.tokens = services.NewTokenService("test-secret", "railway-dispatch", time.Hour).WithClock(e.clock.Now)
	e.auth = services.NewAuthService(e.users, e.roles, e.tokens, e.sessions, e.bus)
	e.service = services.NewUserService(e.users, e.roles, e.infra, e.sessions, e.bus, order).
		WithHashCost(bcrypt.MinCost)

	e.station = entities.Station{UNMC: "5", Title: "Station 5"}
	require.NoError(t, infraRepo.CreateStation(e.ctx, &e.station))
	e.sector = entities.Sector{Kind: entities.Dnc, Title: "North"}
	require.NoError(t, infraRepo.CreateSector(e.ctx, &e.sector))
	require.NoError(t, e.roles.Save(e.ctx, &role.Role{
		ID: "dsp", Title: "Station duty officer", Application: app, Credentials: []string{"DSP", "DSP_Operator"},
	}))
	return e
}

func (e *env) registerCommand(login string) *user.RegisterCommand {
	return &user.RegisterCommand{
		Login:    login,
		Password: "secret1",
		Name:     "Ivan",
		Surname:  "Petrov",
		Roles:    []string{"dsp"},
		WorkPoligons: []workpoligon.WorkPoligon{
			workpoligon.New(workpoligon.Station, e.station.ID),
			workpoligon.New(workpoligon.DncSector, e.sector.ID),
		},
	}
}

func (e *env) junctionRows() int {
	return e.tables.Count(infrapersistence.StationWorkPoligonsTable, nil) +
		e.tables.Count(infrapersistence.DncWorkPoligonsTable, nil) +
		e.tables.Count(infrapersistence.EcdWorkPoligonsTable, nil)
}

func (e *env) userCount(t *testing.T) int {
	t.Helper()
	list, err := e.users.List(e.ctx)
	require.NoError(t, err)
	return len(list)
}
