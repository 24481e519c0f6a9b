package modules

import (
	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/application"
)

// BuiltInModules returns the modules every client loads.
func BuiltInModules(hrmOpts *hrm.ModuleOptions) []application.Module {
	return []application.Module{
		hrm.NewModule(hrmOpts),
	}
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
