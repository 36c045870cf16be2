package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "medication-reminder/docs" // registra el doc swagger

	"medication-reminder/internal/domain/session"
	"medication-reminder/internal/middleware"
	"medication-reminder/internal/platform/logger"
	"medication-reminder/internal/platform/metrics"
)

type Options struct {
	Session *session.Session // obligatorio

	Logger  logger.Logger    // nil => Nop
	Metrics *metrics.Metrics // nil => sin /metrics

	// Clave compartida; vacía => API abierta (modo dev).
	APIKey string
}

func NewRouter(opts Options) http.Handler {
	l := opts.Logger
	if l == nil {
		l = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(l))
	r.Use(middleware.RequestLog(l, opts.Metrics))
	r.Use(middleware.AccessKey(opts.APIKey, "/health", "/metrics"))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	session.RegisterRoutes(r, opts.Session)

	return r
}
