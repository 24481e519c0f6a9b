package listing

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/uroojmurtaza-maker/oms-frontend/pkg/debounce"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/eventbus"
)

// View is everything a renderer needs for one frame.
type View struct {
	Listing      string
	Rows         []Row
	TotalPages   int
	Page         int
	PageSize     int
	Loading      bool
	Fetched      bool
	ErrorMessage string
	Query        QueryState
}

// FetchStateChanged is published whenever loading, error or result of a listing changes.
type FetchStateChanged struct {
	Listing string
	View    View
}

type ControllerOptions struct {
	Initial QueryState
	Clock   clockwork.Clock
	Logger  *logrus.Logger
	Context context.Context
}

// Controller ties a Store to an Orchestrator: filter, sort and page changes trigger a fetch at
// once while search text goes through a debouncer first.
type Controller struct {
	def    Definition
	bus    eventbus.EventBus
	store  *Store
	search *debounce.Debouncer[string]
	orch   *Orchestrator
	log    *logrus.Entry

	// serialises triggers coming from the store and from the debouncer
	mu          sync.Mutex
	latest      QueryState
	unsubscribe func()
	started     bool
	disposed    bool
}

func NewController(def Definition, getter Getter, bus eventbus.EventBus, opts ControllerOptions) (*Controller, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if getter == nil {
		return nil, errors.New("listing: getter is required")
	}
	if bus == nil {
		return nil, errors.New("listing: event bus is required")
	}
	def = def.withDefaults()
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	c := &Controller{
		def: def,
		bus: bus,
		log: log.WithField("listing", def.Name),
	}
	c.store = NewStore(def, bus, opts.Initial)
	c.latest = c.store.State()
	c.search = debounce.New(def.Debounce, c.onSearchSettled,
		debounce.WithClock[string](clock),
		debounce.WithInitial(c.latest.Search),
	)
	c.orch = NewOrchestrator(def, getter, OrchestratorOptions{
		Context:  opts.Context,
		Logger:   log,
		OnChange: c.onFetchState,
	})
	c.unsubscribe = bus.Subscribe(c.onQueryChanged)
	return c, nil
}

func (c *Controller) Definition() Definition {
	return c.def
}

func (c *Controller) Store() *Store {
	return c.store
}

// Start issues the initial fetch for the initial state.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.disposed {
		return
	}
	c.started = true
	c.triggerLocked()
}

// Refetch re-issues the last request with unchanged parameters, bypassing the debouncer.
func (c *Controller) Refetch() bool {
	return c.orch.Refetch()
}

// Effective returns the state requests are derived from: the store state with the settled search.
func (c *Controller) Effective() QueryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.effectiveLocked()
}

func (c *Controller) View() View {
	return c.viewFrom(c.orch.State())
}

// Wait blocks until all issued fetches have resolved. Pending debounced searches are not waited for.
func (c *Controller) Wait() {
	c.orch.Wait()
}

func (c *Controller) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.mu.Unlock()

	c.unsubscribe()
	c.search.Dispose()
	c.orch.Close()
}

// onQueryChanged runs under the store lock and must not call back into the store.
func (c *Controller) onQueryChanged(e *QueryChanged) {
	if e.Listing != c.def.Name {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.latest = e.Current.Clone()
	if e.Current.Search != e.Previous.Search {
		c.search.Set(e.Current.Search)
	}
	if c.started {
		c.triggerLocked()
	}
}

func (c *Controller) onSearchSettled(string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed || !c.started {
		return
	}
	c.triggerLocked()
}

func (c *Controller) triggerLocked() {
	effective := c.effectiveLocked()
	if c.orch.Trigger(effective) {
		c.log.WithField("page", effective.Page).Debug("listing: fetch triggered")
	}
}

func (c *Controller) effectiveLocked() QueryState {
	q := c.latest.Clone()
	q.Search = c.search.Value()
	return q
}

func (c *Controller) onFetchState(s FetchState) {
	c.bus.Publish(&FetchStateChanged{Listing: c.def.Name, View: c.viewFrom(s)})
}

func (c *Controller) viewFrom(s FetchState) View {
	q := c.store.State()
	return View{
		Listing:      c.def.Name,
		Rows:         s.Result.Items,
		TotalPages:   s.Result.TotalPages,
		Page:         q.Page,
		PageSize:     c.def.PageSize,
		Loading:      s.Loading,
		Fetched:      s.Fetched,
		ErrorMessage: s.ErrorMessage,
		Query:        q,
	}
}
