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
	coreservices "github.com/iota-uz/railway-dispatch/modules/core/services"
	"github.com/iota-uz/railway-dispatch/modules/duty/domain/duty"
	"github.com/iota-uz/railway-dispatch/modules/duty/services"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	infrapersistence "github.com/iota-uz/railway-dispatch/modules/infra/infrastructure/persistence"
	infraservices "github.com/iota-uz/railway-dispatch/modules/infra/services"
	"github.com/iota-uz/railway-dispatch/pkg/configuration"
	"github.com/iota-uz/railway-dispatch/pkg/eventbus"
	"github.com/iota-uz/railway-dispatch/pkg/itf"
	"github.com/iota-uz/railway-dispatch/pkg/repo"
)

const app = "dy58"

var (
	station5 = workpoligon.New(workpoligon.Station, 5)
	t1       = time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)
)

type env struct {
	ctx     context.Context
	clock   *itf.Clock
	users   *persistence.InmemUserRepository
	auth    *coreservices.AuthService
	tokens  *coreservices.TokenService
	bus     eventbus.EventBus
	service *services.DutyService
	ids     map[string]string
}

func newEnv(t *testing.T, logins ...string) *env {
	t.Helper()
	ctx := itf.Ctx(t)
	tables := itf.NewMemTables(infrapersistence.Schema()...)
	require.NoError(t, tables.Insert(ctx, infrapersistence.StationsTable, repo.Row{
		infrapersistence.StationID:    5,
		infrapersistence.StationUNMC:  "5",
		infrapersistence.StationTitle: "Station 5",
	}))
	require.NoError(t, tables.Insert(ctx, infrapersistence.StationsTable, repo.Row{
		infrapersistence.StationID:    6,
		infrapersistence.StationUNMC:  "6",
		infrapersistence.StationTitle: "Station 6",
	}))

	e := &env{
		ctx:   ctx,
		clock: itf.NewClock(t1),
		users: persistence.NewInmemUserRepository(),
		bus:   eventbus.NewEventPublisher(itf.Logger(t)),
		ids:   make(map[string]string),
	}
	roles := persistence.NewInmemRoleRepository()
	require.NoError(t, roles.Save(ctx, &role.Role{
		ID: "dsp", Title: "Station duty officer", Application: app, Credentials: []string{"DSP", "DSP_Operator"},
	}))
	infra := infraservices.NewInfrastructureService(
		infrapersistence.NewInfraRepository(tables),
		infrapersistence.NewWorkPoligonRepository(tables),
		infraservices.NewCascadeEngine(infrapersistence.CascadeGraph(), tables),
		tables,
		e.bus,
	)
	sessions := coreservices.NewSessionRegistry()
	e.tokens = coreservices.NewTokenService("test-secret", "railway-dispatch", 12*time.Hour).WithClock(e.clock.Now)
	e.auth = coreservices.NewAuthService(e.users, roles, e.tokens, sessions, e.bus)
	userService := coreservices.NewUserService(e.users, roles, infra, sessions, e.bus,
		configuration.RegistrationOrderRelationalFirst).WithHashCost(bcrypt.MinCost)
	e.service = services.NewDutyService(e.users, e.auth, infra, e.bus).WithClock(e.clock.Now)

	for _, login := range logins {
		// Stored logins must be at least three characters long.
		stored := login + "-user"
		u, err := userService.Register(ctx, &user.RegisterCommand{
			Login:        stored,
			Password:     "secret1",
			Name:         login,
			Surname:      "Test",
			Roles:        []string{"dsp"},
			WorkPoligons: []workpoligon.WorkPoligon{station5},
		})
		require.NoError(t, err)
		_, err = userService.Confirm(ctx, u.ID)
		require.NoError(t, err)
		_, err = e.auth.Login(ctx, &user.LoginCommand{Login: stored, Password: "secret1", Application: app})
		require.NoError(t, err)
		e.ids[login] = u.ID
	}
	return e
}

func (e *env) cmd(login string, wp workpoligon.WorkPoligon, creds ...string) *duty.Command {
	return &duty.Command{
		UserID:      e.ids[login],
		Application: app,
		WorkPoligon: wp,
		Credentials: creds,
	}
}

func (e *env) interval(t *testing.T, login string, wp workpoligon.WorkPoligon, creds ...string) *user.DutyInterval {
	t.Helper()
	u, err := e.users.GetByID(e.ctx, e.ids[login])
	require.NoError(t, err)
	d, ok := u.Interval(wp, user.NewCredentialSet(creds...))
	require.True(t, ok, "no interval for %s", login)
	return d
}
