package listing

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testDefinition() Definition {
	return Definition{
		Name:       "employees",
		Endpoint:   "/users/get-employees",
		ItemsKey:   "employees",
		PageSize:   10,
		Debounce:   500 * time.Millisecond,
		SortFields: []string{"name", "department", "joiningDate"},
		Filters: []FilterDefinition{
			{Key: "designation", Options: []string{"Software Engineer", "Manager"}},
			{Key: "department", Options: []string{"Engineering", "HR"}},
		},
	}
}

type getterCall struct {
	Path   string
	Params url.Values
	reply  chan getterReply
}

type getterReply struct {
	body []byte
	err  error
}

func (c *getterCall) respond(t *testing.T, body any) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	c.reply <- getterReply{body: b}
}

func (c *getterCall) fail(err error) {
	c.reply <- getterReply{err: err}
}

// blockingGetter parks every call until the test answers it.
type blockingGetter struct {
	calls chan *getterCall
}

func newBlockingGetter() *blockingGetter {
	return &blockingGetter{calls: make(chan *getterCall, 32)}
}

func (g *blockingGetter) Get(_ context.Context, path string, params url.Values) ([]byte, error) {
	call := &getterCall{Path: path, Params: params, reply: make(chan getterReply, 1)}
	g.calls <- call
	r := <-call.reply
	return r.body, r.err
}

func (g *blockingGetter) next(t *testing.T) *getterCall {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("expected a request")
		return nil
	}
}

func (g *blockingGetter) assertNoCall(t *testing.T) {
	t.Helper()
	select {
	case c := <-g.calls:
		t.Fatalf("unexpected request with params %v", c.Params)
	case <-time.After(50 * time.Millisecond):
	}
}

// recordingGetter answers immediately with a page built from the request.
type recordingGetter struct {
	mu    sync.Mutex
	calls []url.Values
	body  func(params url.Values) any
}

func (g *recordingGetter) Get(_ context.Context, _ string, params url.Values) ([]byte, error) {
	g.mu.Lock()
	g.calls = append(g.calls, params)
	g.mu.Unlock()
	var body any = map[string]any{"employees": []any{}, "totalPages": 0}
	if g.body != nil {
		body = g.body(params)
	}
	return json.Marshal(body)
}

func (g *recordingGetter) Calls() []url.Values {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]url.Values(nil), g.calls...)
}
