package wihttp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-indicator-go/wi"
)

type test = func(t *testing.T)

func newGate(t *testing.T) *wi.Gate {
	ctx, cancel := context.WithCancel(context.Background())
	loop := wi.NewLoop()
	go func() {
		_ = loop.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-loop.Done()
	})

	return wi.NewGate(loop)
}

func serve(handler http.Handler, method string, target string, body string, contentType string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func readsIndicator(gate *wi.Gate, handler http.Handler) test {
	return func(t *testing.T) {
		w := serve(handler, "GET", "/indicator", "", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"visible":false}`, w.Body.String())
	}
}

func showsAndHides(gate *wi.Gate, handler http.Handler) test {
	return func(t *testing.T) {
		ctx := context.Background()

		assert.Equal(t, http.StatusAccepted, serve(handler, "POST", "/indicator/show", "", "").Code)
		assert.Equal(t, http.StatusAccepted, serve(handler, "POST", "/indicator/show", "", "").Code)
		assert.True(t, gate.Visible(ctx))

		assert.Equal(t, http.StatusAccepted, serve(handler, "POST", "/indicator/hide", "", "").Code)
		assert.True(t, gate.Visible(ctx))

		w := serve(handler, "POST", "/indicator", `{"visible":false}`, "application/json; charset=utf-8")
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.False(t, gate.Visible(ctx))

		assert.JSONEq(t, `{"visible":false}`, serve(handler, "GET", "/indicator", "", "").Body.String())
	}
}

func setsFromBody(gate *wi.Gate, handler http.Handler) test {
	return func(t *testing.T) {
		w := serve(handler, "POST", "/indicator", `{"visible":true}`, "application/json")
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.JSONEq(t, `{"visible":true}`, serve(handler, "GET", "/indicator", "", "").Body.String())

		serve(handler, "POST", "/indicator/hide", "", "")
		assert.False(t, gate.Visible(context.Background()))
	}
}

func rejectsBadRequests(gate *wi.Gate, handler http.Handler) test {
	return func(t *testing.T) {
		w := serve(handler, "POST", "/indicator", `{"visible":true}`, "text/plain")
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

		w = serve(handler, "POST", "/indicator", `{"visible":`, "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = serve(handler, "DELETE", "/indicator", "", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

		assert.False(t, gate.Visible(context.Background()))
	}
}

func TestHandler(t *testing.T) {
	gate := newGate(t)
	handler := NewHandler(gate)

	t.Run("reads indicator", readsIndicator(gate, handler))
	t.Run("shows and hides", showsAndHides(gate, handler))
	t.Run("sets from body", setsFromBody(gate, handler))
	t.Run("rejects bad requests", rejectsBadRequests(gate, handler))
}

func TestMiddleware(t *testing.T) {
	gate := newGate(t)

	var during bool
	handler := Middleware(gate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = gate.Visible(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	w := serve(handler, "GET", "/anything", "", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.True(t, during)
	assert.False(t, gate.Visible(context.Background()))
}

func TestTransport(t *testing.T) {
	gate := newGate(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gate.Visible(r.Context()) {
			_, _ = w.Write([]byte("visible"))
			return
		}
		_, _ = w.Write([]byte("hidden"))
	}))
	defer server.Close()

	client := &http.Client{Transport: Transport(gate, nil)}

	t.Run("shows while the body is open", func(t *testing.T) {
		res, err := client.Get(server.URL)
		require.Nil(t, err)

		body, err := io.ReadAll(res.Body)
		require.Nil(t, err)
		assert.Equal(t, "visible", string(body))
		assert.True(t, gate.Visible(context.Background()))

		require.Nil(t, res.Body.Close())
		assert.False(t, gate.Visible(context.Background()))

		// closing twice does not hide twice
		_ = res.Body.Close()
		gate.Show(context.Background())
		assert.True(t, gate.Visible(context.Background()))
		gate.Hide(context.Background())
	})

	t.Run("hides when the round trip fails", func(t *testing.T) {
		_, err := client.Get("http://127.0.0.1:0/unreachable")
		assert.NotNil(t, err)
		assert.False(t, gate.Visible(context.Background()))
	})
}

func TestTracedTransport(t *testing.T) {
	gate := newGate(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := &http.Client{Transport: TracedTransport(gate, http.DefaultTransport)}

	res, err := client.Get(server.URL)
	require.Nil(t, err)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.True(t, gate.Visible(context.Background()))

	require.Nil(t, res.Body.Close())
	assert.False(t, gate.Visible(context.Background()))
}
