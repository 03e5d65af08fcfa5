package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"order-import-service/internal/config"
	impHnd "order-import-service/internal/importer/handler"
	"order-import-service/internal/importer/service"
	"order-import-service/internal/middleware"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, ds service.Dataset) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	r.Get("/health", impHnd.Health)

	imports := impHnd.NewImports(cfg, logger, ds)
	r.Route("/imports", imports.Routes)

	return r
}
