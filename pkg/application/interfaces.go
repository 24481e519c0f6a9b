package application

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/uroojmurtaza-maker/oms-frontend/pkg/eventbus"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/httpapi"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/listing"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/session"
)

// Controller mounts HTTP routes on the application router.
type Controller interface {
	Register(r *mux.Router)
	Key() string
}

// Module groups the services, listings and controllers of one domain.
type Module interface {
	Register(app Application) error
	Name() string
}

type Application interface {
	EventPublisher() eventbus.EventBus
	Logger() *logrus.Logger
	API() *httpapi.Client
	Session() *session.Session
	Controllers() []Controller
	Middleware() []mux.MiddlewareFunc
	RegisterControllers(controllers ...Controller)
	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	RegisterListings(defs ...listing.Definition)
	Listing(name string) (listing.Definition, bool)
	RegisterModules(modules ...Module) error
}
