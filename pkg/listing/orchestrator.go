package listing

import (
	"context"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/uroojmurtaza-maker/oms-frontend/pkg/httpapi"
)

const fetchFailedMessage = "Failed to fetch data"

// Getter is the part of httpapi.Client the orchestrator needs.
type Getter interface {
	Get(ctx context.Context, path string, params url.Values) ([]byte, error)
}

// FetchState is what the orchestrator exposes to renderers. Result keeps the last successful
// projection while a newer request is loading or after it failed.
type FetchState struct {
	Seq          uint64
	Params       RequestParams
	Loading      bool
	ErrorMessage string
	Result       FetchResult
	Fetched      bool

	version uint64
}

type OrchestratorOptions struct {
	Context  context.Context
	Logger   *logrus.Logger
	OnChange func(FetchState)
}

// Orchestrator is the only caller of the API for a listing and the only writer of its fetch
// state. Responses that are not for the latest request are discarded.
type Orchestrator struct {
	def      Definition
	getter   Getter
	ctx      context.Context
	log      *logrus.Entry
	onChange func(FetchState)

	mu      sync.Mutex
	seq     uint64
	last    RequestParams
	hasLast bool
	closed  bool
	state   FetchState

	notifyMu  sync.Mutex
	delivered uint64

	wg sync.WaitGroup
}

func NewOrchestrator(def Definition, getter Getter, opts OrchestratorOptions) *Orchestrator {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	onChange := opts.OnChange
	if onChange == nil {
		onChange = func(FetchState) {}
	}
	return &Orchestrator{
		def:      def,
		getter:   getter,
		ctx:      ctx,
		log:      log.WithField("listing", def.Name),
		onChange: onChange,
		state:    FetchState{Result: FetchResult{Items: []Row{}}},
	}
}

func (o *Orchestrator) State() FetchState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Trigger issues a request for q unless it derives the same parameters as the last request.
// It reports whether a request was issued.
func (o *Orchestrator) Trigger(q QueryState) bool {
	params := DeriveParams(o.def, q)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || (o.hasLast && params.Equal(o.last)) {
		return false
	}
	o.issueLocked(params)
	return true
}

// Refetch repeats the last request. It returns false when nothing was requested yet.
func (o *Orchestrator) Refetch() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || !o.hasLast {
		return false
	}
	o.issueLocked(o.last)
	return true
}

// Close stops accepting triggers. Responses still in flight change nothing and no OnChange
// call starts after Close returns.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
}

// Wait blocks until every issued request has resolved.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) issueLocked(params RequestParams) {
	o.seq++
	o.last = params
	o.hasLast = true

	o.state.Seq = o.seq
	o.state.Params = params
	o.state.Loading = true
	o.state.ErrorMessage = ""
	o.state.version++
	snapshot := o.state

	// each request runs on its own goroutine, so requests may reach the server out of
	// trigger order; seq decides which response is applied
	o.wg.Add(1)
	go o.fetch(snapshot)
}

func (o *Orchestrator) fetch(issued FetchState) {
	defer o.wg.Done()

	// the loading notification is delivered here so OnChange never runs on the caller's stack
	o.notify(issued)

	seq := issued.Seq
	log := o.log.WithField("seq", seq)
	body, err := o.getter.Get(o.ctx, o.def.Endpoint, issued.Params.Values())
	var result FetchResult
	if err == nil {
		result, err = Project(body, o.def.ItemsKey)
	}

	o.mu.Lock()
	if o.closed || seq != o.seq {
		o.mu.Unlock()
		getMetrics().fetchTotal.WithLabelValues(o.def.Name, resultStale).Inc()
		log.Debug("listing: discarding stale response")
		return
	}
	o.state.Loading = false
	if err != nil {
		o.state.ErrorMessage = failureMessage(err)
	} else {
		o.state.Result = result
		o.state.Fetched = true
	}
	o.state.version++
	snapshot := o.state
	o.mu.Unlock()

	if err != nil {
		getMetrics().fetchTotal.WithLabelValues(o.def.Name, resultError).Inc()
		log.WithError(err).Warn("listing: fetch failed")
	} else {
		getMetrics().fetchTotal.WithLabelValues(o.def.Name, resultSuccess).Inc()
		log.WithField("rows", len(result.Items)).Debug("listing: fetched")
	}
	o.notify(snapshot)
}

// notify delivers snapshots in version order and drops any that a newer one already overtook
// or that arrive after Close.
func (o *Orchestrator) notify(s FetchState) {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()
	o.mu.Lock()
	closed := o.closed
	o.mu.Unlock()
	if closed || s.version <= o.delivered {
		return
	}
	o.delivered = s.version
	o.onChange(s)
}

func failureMessage(err error) string {
	if msg := httpapi.ServerMessage(err); msg != "" {
		return msg
	}
	return fetchFailedMessage
}
