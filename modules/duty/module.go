package duty

import (
	"github.com/iota-uz/railway-dispatch/modules/core/infrastructure/persistence"
	coreservices "github.com/iota-uz/railway-dispatch/modules/core/services"
	"github.com/iota-uz/railway-dispatch/modules/duty/presentation/controllers"
	"github.com/iota-uz/railway-dispatch/modules/duty/services"
	infraservices "github.com/iota-uz/railway-dispatch/modules/infra/services"
	"github.com/iota-uz/railway-dispatch/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.RegisterServices(
		services.NewDutyService(
			app.Service(persistence.UserRepository{}).(*persistence.UserRepository),
			app.Service(coreservices.AuthService{}).(*coreservices.AuthService),
			app.Service(infraservices.InfrastructureService{}).(*infraservices.InfrastructureService),
			app.EventPublisher(),
		),
	)
	app.RegisterControllers(
		controllers.NewDutyController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "duty"
}
