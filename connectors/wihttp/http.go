package wihttp

import (
	"context"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Indicator is the part of wi.Gate the connector drives.
type Indicator interface {
	Visible(ctx context.Context) bool
	SetVisible(ctx context.Context, visible bool)
}

type HandlerOption func(service *httpService)

func Logger(log *zerolog.Logger) HandlerOption {
	return func(service *httpService) {
		service.log = log
	}
}

type Visibility struct {
	Visible bool `json:"visible"`
}

func NewHandler(indicator Indicator, options ...HandlerOption) http.Handler {
	service := &httpService{indicator: indicator}
	for _, option := range options {
		option(service)
	}
	if service.log == nil {
		service.log = &log.Logger
	}

	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Method("GET", "/indicator", service.getIndicator())
	r.Method("POST", "/indicator", service.setIndicator())
	r.Method("POST", "/indicator/show", service.request(true))
	r.Method("POST", "/indicator/hide", service.request(false))

	return WithTelemetry(r, "wi-http")
}

type httpService struct {
	log       *zerolog.Logger
	indicator Indicator
}

func (service *httpService) getIndicator() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := json.MarshalContext(r.Context(), Visibility{Visible: service.indicator.Visible(r.Context())})
		if err != nil {
			service.log.Info().Err(err).Msg("failed to encode indicator")
			http.Error(w, "failed to encode indicator", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

func (service *httpService) setIndicator() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contentType := r.Header.Get("Content-type")
		mediaType, _, err := mime.ParseMediaType(contentType)
		if mediaType != "application/json" || err != nil {
			http.Error(w, "unsupported content type", http.StatusUnsupportedMediaType)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		var requested Visibility
		if err := json.UnmarshalContext(r.Context(), body, &requested); err != nil {
			service.log.Info().Err(err).Msg("failed to unmarshal visibility request")
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		service.indicator.SetVisible(r.Context(), requested.Visible)
		w.WriteHeader(http.StatusAccepted)
	}
}

func (service *httpService) request(visible bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		service.indicator.SetVisible(r.Context(), visible)
		w.WriteHeader(http.StatusAccepted)
	}
}
