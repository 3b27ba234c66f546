// Package httpapi serves the data-access facade over the single endpoint
// protocol the remote strategy speaks.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dwikikusuma/ec-training/internal/facade"
)

const EndpointPath = "/exec"

type Options struct {
	Data facade.DataAccess
	Log  *slog.Logger
	// Hub is optional; without it /ws is not mounted.
	Hub *Hub
	// Ready is optional; it backs /readyz.
	Ready func(ctx context.Context) error
}

func NewRouter(opts Options) http.Handler {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	h := &execHandler{data: opts.Data, log: opts.Log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(opts.Log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if opts.Ready != nil {
			if err := opts.Ready(r.Context()); err != nil {
				opts.Log.Warn("not ready", slog.Any("err", err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get(EndpointPath, h.get)
	r.Post(EndpointPath, h.post)

	if opts.Hub != nil {
		r.Get("/ws", opts.Hub.ServeWS)
	}

	return r
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info("http request",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("resource", r.URL.Query().Get(facade.ParamPath)),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
