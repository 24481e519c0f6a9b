package hrm

import (
	_ "embed"
	"time"

	"github.com/go-faster/errors"

	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/services"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/application"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/listing"
)

//go:embed listings.yaml
var listingsYAML []byte

type ModuleOptions struct {
	// PageSize and SearchDebounce override the embedded definitions when positive.
	PageSize       int
	SearchDebounce time.Duration
	LoginPath      string
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	if app.API() == nil {
		return errors.New("hrm: API client is required")
	}
	defs, err := Listings()
	if err != nil {
		return err
	}
	for _, def := range defs {
		if m.options.PageSize > 0 {
			def.PageSize = m.options.PageSize
		}
		if m.options.SearchDebounce > 0 {
			def.Debounce = m.options.SearchDebounce
		}
		app.RegisterListings(def)
	}

	employeeService := services.NewEmployeeService(app.API(), app.EventPublisher())
	employeesDef, _ := app.Listing(services.EmployeesListing)
	app.RegisterServices(
		employeeService,
		services.NewEmployeeExporter(employeesDef, app.API(), app.Logger()),
	)
	if app.Session() != nil {
		app.RegisterServices(services.NewAuthService(app.API(), app.Session(), m.options.LoginPath))
	}
	return nil
}

func (m *Module) Name() string {
	return "hrm"
}

// Listings parses the embedded listing definitions.
func Listings() (map[string]listing.Definition, error) {
	defs, err := listing.ParseDefinitions(listingsYAML)
	if err != nil {
		return nil, errors.Wrap(err, "hrm listings")
	}
	if _, ok := defs[services.EmployeesListing]; !ok {
		return nil, errors.New("hrm listings: employees listing is missing")
	}
	return defs, nil
}
