package application

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/uroojmurtaza-maker/oms-frontend/pkg/eventbus"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/httpapi"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/listing"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/session"
)

type ApplicationOptions struct {
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
	API      *httpapi.Client
	Session  *session.Session
}

func New(opts *ApplicationOptions) Application {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	bus := opts.EventBus
	if bus == nil {
		bus = eventbus.NewEventPublisher(log)
	}
	return &application{
		eventPublisher: bus,
		log:            log,
		api:            opts.API,
		session:        opts.Session,
		controllers:    make(map[string]Controller),
		services:       make(map[reflect.Type]interface{}),
		listings:       make(map[string]listing.Definition),
	}
}

type application struct {
	eventPublisher eventbus.EventBus
	log            *logrus.Logger
	api            *httpapi.Client
	session        *session.Session

	mu          sync.RWMutex
	services    map[reflect.Type]interface{}
	controllers map[string]Controller
	middleware  []mux.MiddlewareFunc
	listings    map[string]listing.Definition
}

func (app *application) EventPublisher() eventbus.EventBus {
	return app.eventPublisher
}

func (app *application) Logger() *logrus.Logger {
	return app.log
}

func (app *application) API() *httpapi.Client {
	return app.api
}

func (app *application) Session() *session.Session {
	return app.session
}

func (app *application) Middleware() []mux.MiddlewareFunc {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.middleware
}

// Controllers returns the registered controllers ordered by key.
func (app *application) Controllers() []Controller {
	app.mu.RLock()
	defer app.mu.RUnlock()
	controllers := make([]Controller, 0, len(app.controllers))
	for _, c := range app.controllers {
		controllers = append(controllers, c)
	}
	sort.Slice(controllers, func(i, j int) bool {
		return controllers[i].Key() < controllers[j].Key()
	})
	return controllers
}

func (app *application) RegisterControllers(controllers ...Controller) {
	app.mu.Lock()
	defer app.mu.Unlock()
	for _, c := range controllers {
		app.controllers[c.Key()] = c
	}
}

func (app *application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.middleware = append(app.middleware, middleware...)
}

// RegisterServices registers a new service in the application by its type
func (app *application) RegisterServices(services ...interface{}) {
	app.mu.Lock()
	defer app.mu.Unlock()
	for _, service := range services {
		serviceType := reflect.TypeOf(service).Elem()
		app.services[serviceType] = service
	}
}

// Service retrieves a service by its type
func (app *application) Service(service interface{}) interface{} {
	app.mu.RLock()
	defer app.mu.RUnlock()
	serviceType := reflect.TypeOf(service)
	svc, exists := app.services[serviceType]
	if !exists {
		panic(fmt.Sprintf("service %s not found", serviceType.Name()))
	}
	return svc
}

func (app *application) RegisterListings(defs ...listing.Definition) {
	app.mu.Lock()
	defer app.mu.Unlock()
	for _, def := range defs {
		app.listings[def.Name] = def
	}
}

func (app *application) Listing(name string) (listing.Definition, bool) {
	app.mu.RLock()
	defer app.mu.RUnlock()
	def, ok := app.listings[name]
	return def, ok
}

func (app *application) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(app); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
		app.log.WithField("module", m.Name()).Debug("module registered")
	}
	return nil
}
