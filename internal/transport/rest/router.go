package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/income-expense-tracker/internal/category"
	"github.com/frahmantamala/income-expense-tracker/internal/entry"
	"github.com/frahmantamala/income-expense-tracker/internal/transport/middleware"
	"github.com/frahmantamala/income-expense-tracker/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Routes struct {
	Health         *HealthHandler
	Entries        *entry.Handler
	Categories     *category.Handler
	AllowedOrigins string
	OpenAPIPath    string
	Logger         *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, routes Routes) {
	logger := routes.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router.Use(middleware.CORS(routes.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.TraceID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	openAPIPath := routes.OpenAPIPath
	if openAPIPath == "" {
		openAPIPath = "./api/openapi.yml"
	}
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, openAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		if routes.Health != nil {
			r.Get("/health", routes.Health.healthCheckHandler)
			r.Get("/ping", routes.Health.pingHandler)
		}

		if routes.Categories != nil {
			r.Get("/categories", routes.Categories.GetCategories)
		}

		if routes.Entries != nil {
			r.Route("/entries", func(er chi.Router) {
				er.Get("/form", routes.Entries.GetFormDefaults)
				er.Post("/", routes.Entries.CreateEntry)
				er.Get("/{period}", routes.Entries.GetEntry)
				er.Put("/{period}", routes.Entries.ReplaceEntry)
			})
			r.Get("/periods", routes.Entries.ListPeriods)
			r.Get("/reports/{period}", routes.Entries.GetSummary)
		}
	})
}
