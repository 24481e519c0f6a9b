package main

import (
	"context"
	"io"
	"os"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/uroojmurtaza-maker/oms-frontend/modules"
	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm"
	"github.com/uroojmurtaza-maker/oms-frontend/modules/hrm/services"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/application"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/composables"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/configuration"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/eventbus"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/httpapi"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/listing"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/logging"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/metrics"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/middleware"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/server"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/session"
)

// runtime is everything one command invocation needs.
type runtime struct {
	log     *logrus.Logger
	app     application.Application
	session *session.Session
	out     io.Writer
	in      io.Reader
	closers []func()
}

type runtimeFactory func(ctx context.Context) (*runtime, error)

type assembleOptions struct {
	Logger *logrus.Logger
	Store  session.Store
	API    httpapi.Options
	Module hrm.ModuleOptions
}

// assemble wires the session, the API client and the hrm module into an application.
func assemble(ctx context.Context, opts assembleOptions) (*runtime, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	sess := session.New(opts.Store, log)
	if err := sess.Init(ctx); err != nil {
		return nil, errors.Wrap(err, "restore session")
	}
	apiOpts := opts.API
	apiOpts.Tokens = sess
	apiOpts.Logger = log
	client, err := httpapi.NewClient(apiOpts)
	if err != nil {
		return nil, err
	}
	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(log),
		Logger:   log,
		API:      client,
		Session:  sess,
	})
	moduleOpts := opts.Module
	if err := modules.Load(app, modules.BuiltInModules(&moduleOpts)...); err != nil {
		return nil, err
	}
	return &runtime{log: log, app: app, session: sess, out: os.Stdout, in: os.Stdin}, nil
}

// newRuntime builds the runtime from the process configuration.
func newRuntime(ctx context.Context) (*runtime, error) {
	conf, err := configuration.Use()
	if err != nil {
		return nil, withCode(exitConfig, err)
	}
	log := conf.Logger()

	var closers []func()
	if conf.OpenTelemetry.Enabled {
		closers = append(closers, logging.SetupTracing(ctx, conf.OpenTelemetry.ServiceName, conf.OpenTelemetry.TempoURL))
		log.Debug("OpenTelemetry tracing enabled, exporting to " + conf.OpenTelemetry.TempoURL)
	}

	store, err := sessionStore(conf)
	if err != nil {
		return nil, withCode(exitConfig, err)
	}
	rt, err := assemble(ctx, assembleOptions{
		Logger: log,
		Store:  store,
		API: httpapi.Options{
			BaseURL:         conf.API.BaseURL,
			Timeout:         conf.API.Timeout,
			RequestIDHeader: conf.RequestIDHeader,
		},
		Module: hrm.ModuleOptions{
			PageSize:       conf.Listing.PageSize,
			SearchDebounce: conf.Listing.SearchDebounce,
			LoginPath:      conf.API.LoginPath,
		},
	})
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, err
	}
	rt.closers = append(rt.closers, closers...)

	if conf.Prometheus.Enabled {
		rt.app.RegisterMiddleware(middleware.WithLogger(log, middleware.LoggerOptions{RequestIDHeader: conf.RequestIDHeader}))
		rt.app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
		srvCtx, cancel := context.WithCancel(context.Background())
		srv := server.NewHTTPServer(rt.app, nil, nil)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := srv.Serve(srvCtx, conf.Prometheus.Addr); err != nil {
				log.WithError(err).Warn("metrics server stopped")
			}
		}()
		rt.closers = append(rt.closers, func() {
			cancel()
			<-done
		})
		log.Debugf("serving metrics on %s%s", conf.Prometheus.Addr, conf.Prometheus.Path)
	}
	rt.closers = append(rt.closers, conf.Unload)
	return rt, nil
}

func sessionStore(conf *configuration.Configuration) (session.Store, error) {
	if conf.Session.Store == "redis" {
		client, err := session.NewRedisClient(conf.Session.RedisURL)
		if err != nil {
			return nil, err
		}
		return session.NewRedisStore(client, conf.Session.Key), nil
	}
	return session.NewFileStore(conf.Session.File), nil
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

// authorized returns ctx carrying the signed-in user, or an error when nobody is signed in.
func (rt *runtime) authorized(ctx context.Context) (context.Context, error) {
	if !rt.session.Authenticated() {
		return nil, withCode(exitAuth, errors.Wrap(session.ErrNotAuthenticated, "run `oms login` first"))
	}
	ctx = composables.WithUser(ctx, rt.session.User())
	return composables.WithLogger(ctx, logrus.NewEntry(rt.log)), nil
}

func (rt *runtime) role() string {
	return rt.session.User().Role()
}

func (rt *runtime) employees() *services.EmployeeService {
	return rt.app.Service(services.EmployeeService{}).(*services.EmployeeService)
}

func (rt *runtime) auth() *services.AuthService {
	return rt.app.Service(services.AuthService{}).(*services.AuthService)
}

func (rt *runtime) exporter() *services.EmployeeExporter {
	return rt.app.Service(services.EmployeeExporter{}).(*services.EmployeeExporter)
}

func (rt *runtime) employeesListing() listing.Definition {
	def, _ := rt.app.Listing(services.EmployeesListing)
	return def
}

func (rt *runtime) newEmployeeListing(ctx context.Context, initial listing.QueryState) (*services.EmployeeListing, error) {
	return services.NewEmployeeListing(
		rt.employeesListing(),
		rt.app.API(),
		rt.app.EventPublisher(),
		rt.employees(),
		listing.ControllerOptions{Initial: initial, Logger: rt.log, Context: ctx},
	)
}
