package main

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/weegigs/wee-indicator-go/connectors/wihttp"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs each request along with the indicator visibility once the
// request has been served.
func withLogging(h http.Handler, indicator wihttp.Indicator, logger *logrus.Logger) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: rw, status: http.StatusOK}

		h.ServeHTTP(recorder, r)

		entry := logger.WithFields(logrus.Fields{
			"path":      r.URL.Path,
			"method":    r.Method,
			"status":    recorder.status,
			"duration":  time.Since(start),
			"indicator": indicator.Visible(r.Context()),
		})

		if recorder.status >= http.StatusBadRequest {
			entry.Warn("indicator request rejected")
			return
		}
		entry.Info("indicator request")
	})
}
