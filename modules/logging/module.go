package logging

import (
	"github.com/iota-uz/railway-dispatch/modules/logging/handlers"
	"github.com/iota-uz/railway-dispatch/modules/logging/infrastructure/persistence"
	"github.com/iota-uz/railway-dispatch/modules/logging/presentation/controllers"
	"github.com/iota-uz/railway-dispatch/modules/logging/services"
	"github.com/iota-uz/railway-dispatch/pkg/application"
	"github.com/iota-uz/railway-dispatch/pkg/configuration"
)

const auditRetention = 10_000

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	cfg := configuration.Use()
	service := services.NewAuditService(
		persistence.NewAuditLogRepository(app.Redis(), cfg.Redis.Prefix, auditRetention),
		app.Logger(),
	)
	app.RegisterServices(service)
	app.RegisterControllers(
		controllers.NewAuditController(app),
	)
	handlers.RegisterAuditEventHandlers(app.EventPublisher(), service)
	return nil
}

func (m *Module) Name() string {
	return "logging"
}
