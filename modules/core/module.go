package core

import (
	"github.com/iota-uz/railway-dispatch/modules/core/infrastructure/persistence"
	"github.com/iota-uz/railway-dispatch/modules/core/presentation/controllers"
	"github.com/iota-uz/railway-dispatch/modules/core/services"
	infraservices "github.com/iota-uz/railway-dispatch/modules/infra/services"
	"github.com/iota-uz/railway-dispatch/pkg/application"
	"github.com/iota-uz/railway-dispatch/pkg/configuration"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

// Register expects the infra module to be registered first: the user
// service writes work poligon assignments through it.
func (m *Module) Register(app application.Application) error {
	cfg := configuration.Use()
	infra := app.Service(infraservices.InfrastructureService{}).(*infraservices.InfrastructureService)

	userRepo := persistence.NewUserRepository(app.Redis(), cfg.Redis.Prefix)
	roleRepo := persistence.NewRoleRepository(app.Redis(), cfg.Redis.Prefix)
	sessions := services.NewSessionRegistry()
	tokens := services.NewTokenService(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.SessionDuration)

	app.RegisterServices(
		userRepo,
		sessions,
		tokens,
		services.NewAuthService(userRepo, roleRepo, tokens, sessions, app.EventPublisher()),
		services.NewUserService(userRepo, roleRepo, infra, sessions, app.EventPublisher(), cfg.Saga.RegistrationOrder),
	)
	app.RegisterControllers(
		controllers.NewAuthController(app),
		controllers.NewUsersController(app),
		controllers.NewRolesController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "core"
}
