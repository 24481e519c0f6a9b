package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newTestClient(t *testing.T, r *mux.Router, tokens TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	c, err := NewClient(Options{BaseURL: srv.URL + "/api", RequestIDHeader: "X-Request-ID", Tokens: tokens})
	require.NoError(t, err)
	return c
}

func TestNewClient_ConfigErrors(t *testing.T) {
	for name, base := range map[string]string{
		"empty":       "",
		"blank":       "   ",
		"no scheme":   "example.com/api",
		"unparseable": "http://[::1",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewClient(Options{BaseURL: base})
			require.Error(t, err)
			assert.True(t, IsKind(err, KindConfig))
		})
	}
}

func TestClient_Get_ResolvesPathAndAttachesToken(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/users/get-employees", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
		assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
		assert.Equal(t, "1", req.URL.Query().Get("page"))
		assert.Equal(t, "jane", req.URL.Query().Get("search"))
		_ = WriteJSON(w, http.StatusOK, map[string]any{"employees": []any{}, "totalPages": 0})
	}).Methods(http.MethodGet)

	c := newTestClient(t, r, staticToken("secret"))
	body, err := c.Get(context.Background(), "/users/get-employees", url.Values{"page": {"1"}, "search": {"jane"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"employees":[],"totalPages":0}`, string(body))
	assert.False(t, c.Loading())
}

func TestClient_SkipsAuthorization(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	r := mux.NewRouter()
	r.HandleFunc("/api/users/login", func(w http.ResponseWriter, req *http.Request) {
		mu.Lock()
		seen = append(seen, req.Header.Get("Authorization"))
		mu.Unlock()
		_ = WriteJSON(w, http.StatusOK, map[string]string{"token": "t"})
	})

	c := newTestClient(t, r, staticToken("secret"))
	_, err := c.Do(context.Background(), http.MethodPost, "/users/login", RequestOptions{Body: map[string]string{"email": "a@b.c"}, SkipAuth: true})
	require.NoError(t, err)

	anonymous := newTestClient(t, r, staticToken(""))
	_, err = anonymous.Post(context.Background(), "/users/login", map[string]string{"email": "a@b.c"})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"", ""}, seen)
}

func TestClient_BodyEncoding(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/echo", func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		_ = WriteJSON(w, http.StatusOK, map[string]string{
			"contentType": req.Header.Get("Content-Type"),
			"body":        string(b),
		})
	})
	c := newTestClient(t, r, nil)

	decode := func(t *testing.T, body []byte) map[string]string {
		t.Helper()
		out := map[string]string{}
		require.NoError(t, DecodeJSON(body, &out))
		return out
	}

	t.Run("json", func(t *testing.T) {
		body, err := c.Put(context.Background(), "echo", map[string]string{"name": "Jane"})
		require.NoError(t, err)
		out := decode(t, body)
		assert.Equal(t, "application/json", out["contentType"])
		assert.JSONEq(t, `{"name":"Jane"}`, out["body"])
	})

	t.Run("multipart keeps boundary content type", func(t *testing.T) {
		png := []byte("\x89PNG\r\n\x1a\n0000")
		form := NewMultipart().AddField("name", "Jane").AddFile("avatar", "a.png", png)
		body, err := c.Do(context.Background(), http.MethodPost, "/echo", RequestOptions{Body: form})
		require.NoError(t, err)
		out := decode(t, body)
		assert.True(t, strings.HasPrefix(out["contentType"], "multipart/form-data; boundary="), out["contentType"])
		assert.Contains(t, out["body"], "Content-Type: image/png")
		assert.Contains(t, out["body"], `name="name"`)
	})

	t.Run("reader is not forced to json", func(t *testing.T) {
		body, err := c.Do(context.Background(), http.MethodPost, "/echo", RequestOptions{
			Body:        strings.NewReader("raw"),
			ContentType: "text/plain",
		})
		require.NoError(t, err)
		out := decode(t, body)
		assert.Equal(t, "text/plain", out["contentType"])
		assert.Equal(t, "raw", out["body"])
	})

	t.Run("unencodable body", func(t *testing.T) {
		_, err := c.Post(context.Background(), "/echo", map[string]any{"ch": make(chan int)})
		require.Error(t, err)
		assert.True(t, IsKind(err, KindValidation))
	})
}

func TestClient_ErrorNormalization(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/api/users/delete-employee/{id}", func(w http.ResponseWriter, req *http.Request) {
		_ = WriteError(w, http.StatusForbidden, "FORBIDDEN", "You cannot delete this employee", nil)
	}).Methods(http.MethodDelete)
	r.HandleFunc("/api/broken", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>oops</html>"))
	})
	c := newTestClient(t, r, nil)

	t.Run("server message wins", func(t *testing.T) {
		_, err := c.Delete(context.Background(), "/users/delete-employee/7")
		require.Error(t, err)
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindAPI, apiErr.Kind)
		assert.Equal(t, http.StatusForbidden, apiErr.HTTPStatus)
		assert.Equal(t, "You cannot delete this employee", apiErr.Message)
		assert.Equal(t, "You cannot delete this employee", ServerMessage(err))
		assert.Equal(t, "FORBIDDEN", apiErr.Code)
	})

	t.Run("non-json error body", func(t *testing.T) {
		_, err := c.Get(context.Background(), "/broken", nil)
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindAPI, apiErr.Kind)
		assert.Empty(t, apiErr.ServerMessage)
		assert.Equal(t, "Request failed with status code 500", apiErr.Message)
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()

		dead, err := NewClient(Options{BaseURL: base})
		require.NoError(t, err)
		_, err = dead.Get(context.Background(), "/users/get-employees", nil)
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindNetwork, apiErr.Kind)
		assert.NotEmpty(t, apiErr.Message)
		assert.Empty(t, ServerMessage(err))
		assert.False(t, dead.Loading())
	})
}

func TestClient_LoadingDuringCall(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	r := mux.NewRouter()
	r.HandleFunc("/api/slow", func(w http.ResponseWriter, req *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, r, nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.Get(context.Background(), "/slow", nil)
		done <- err
	}()
	<-entered
	assert.True(t, c.Loading())
	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.Loading())
}

func TestFallbackMessage(t *testing.T) {
	assert.Equal(t, "Failed to fetch data", fallbackMessage(http.MethodGet))
	assert.Equal(t, "DELETE request failed", fallbackMessage(http.MethodDelete))
}

func TestDecodeJSON(t *testing.T) {
	var out map[string]any
	require.NoError(t, DecodeJSON(nil, &out))
	assert.Nil(t, out)

	err := DecodeJSON([]byte("{"), &out)
	assert.True(t, IsKind(err, KindValidation))

	require.NoError(t, DecodeJSON([]byte(`{"a":1}`), &out))
	assert.InDelta(t, 1.0, out["a"], 0)
}
