package infra

import (
	"github.com/iota-uz/railway-dispatch/modules/infra/infrastructure/persistence"
	"github.com/iota-uz/railway-dispatch/modules/infra/presentation/controllers"
	"github.com/iota-uz/railway-dispatch/modules/infra/services"
	"github.com/iota-uz/railway-dispatch/pkg/application"
	"github.com/iota-uz/railway-dispatch/pkg/composables"
	"github.com/iota-uz/railway-dispatch/pkg/repo/pgstore"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	store := pgstore.New()
	app.RegisterServices(
		services.NewInfrastructureService(
			persistence.NewInfraRepository(store),
			persistence.NewWorkPoligonRepository(store),
			services.NewCascadeEngine(persistence.CascadeGraph(), store),
			composables.NewPoolTxRunner(app.DB()),
			app.EventPublisher(),
		),
	)
	app.RegisterControllers(
		controllers.NewInfraController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "infra"
}
