package wihttp

import (
	"context"
	"io"
	"net/http"
	"sync"
)

// Transport shows the indicator while an outbound request is in flight. The
// request counts as finished when its response body is closed, or when the
// round trip fails.
func Transport(indicator Indicator, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	return &transport{indicator: indicator, base: base}
}

type transport struct {
	indicator Indicator
	base      http.RoundTripper
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.indicator.SetVisible(req.Context(), true)

	var once sync.Once
	release := func() {
		once.Do(func() {
			t.indicator.SetVisible(context.Background(), false)
		})
	}

	res, err := t.base.RoundTrip(req)
	if err != nil {
		release()
		return nil, err
	}

	if res.Body == nil {
		release()
		return res, nil
	}

	res.Body = &trackedBody{ReadCloser: res.Body, release: release}
	return res, nil
}

type trackedBody struct {
	io.ReadCloser
	release func()
}

func (b *trackedBody) Close() error {
	defer b.release()
	return b.ReadCloser.Close()
}
