package wihttp

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func WithTelemetry(h http.Handler, name string) http.Handler {
	return otelhttp.NewHandler(h, name)
}

// TracedTransport combines Transport with otelhttp client instrumentation.
func TracedTransport(indicator Indicator, base http.RoundTripper) http.RoundTripper {
	return Transport(indicator, otelhttp.NewTransport(base))
}
