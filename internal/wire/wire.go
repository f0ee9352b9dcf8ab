// internal/wire/wire.go
package wire

import (
	"context"
	"net/http"
	"time"

	"appointment-booking/internal/adaptor"
	"appointment-booking/internal/data/repository"
	"appointment-booking/internal/usecase"
	"appointment-booking/pkg/database"
	"appointment-booking/pkg/middleware"
	"appointment-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// App holds the assembled HTTP stack.
type App struct {
	Router  *chi.Mux
	Handler http.Handler
}

// Deps are the process-level resources the routes depend on. Redis may be nil.
type Deps struct {
	DB     database.PgxIface
	Redis  *redis.Client
	Repo   *repository.Repository
	Clock  usecase.Clock
	Config *utils.Config
}

// Wiring builds services, handlers and the router.
func Wiring(deps Deps, logger *zap.Logger) *App {
	service := usecase.NewService(deps.Repo, deps.Clock, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, deps, logger)

	return &App{
		Router:  router,
		Handler: otelhttp.NewHandler(router, deps.Config.App.Name),
	}
}

func setupRouter(handler *adaptor.Handler, deps Deps, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP(deps.Config.App.TrustedProxies, logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(deps.Config.App.AllowedOrigins))

	// Apply routes
	wireCatalog(r, handler.Catalog, handler.Availability)
	wireBooking(r, handler.Booking, deps, logger)
	wireAdmin(r, handler.Admin, deps.Config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/ready", readyHandler(deps, logger))

	return r
}

// readyHandler pings Postgres and, when configured, Redis.
func readyHandler(deps Deps, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true

		if deps.DB == nil {
			checks["database"] = "not configured"
			ready = false
		} else if err := deps.DB.Ping(ctx); err != nil {
			logger.Warn("Readiness check failed", zap.String("check", "database"), zap.Error(err))
			checks["database"] = "unavailable"
			ready = false
		} else {
			checks["database"] = "ok"
		}

		if deps.Redis != nil {
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				logger.Warn("Readiness check failed", zap.String("check", "redis"), zap.Error(err))
				checks["redis"] = "unavailable"
				ready = false
			} else {
				checks["redis"] = "ok"
			}
		}

		if !ready {
			utils.ResponseJSON(w, http.StatusServiceUnavailable, checks)
			return
		}
		utils.ResponseSuccess(w, checks)
	}
}
