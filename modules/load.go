package modules

import (
	"github.com/iota-uz/railway-dispatch/modules/core"
	"github.com/iota-uz/railway-dispatch/modules/duty"
	"github.com/iota-uz/railway-dispatch/modules/infra"
	"github.com/iota-uz/railway-dispatch/modules/logging"
	"github.com/iota-uz/railway-dispatch/pkg/application"
)

// BuiltInModules in registration order: later modules look up services
// registered by earlier ones.
var BuiltInModules = []application.Module{
	infra.NewModule(),
	core.NewModule(),
	duty.NewModule(),
	logging.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
