package wire

import (
	"appointment-booking/internal/adaptor"
	"appointment-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	deps Deps,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES (rate limited) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(bookingLimiter(deps, log), "book", log))

		// POST /api/book-appointment/ - Create a booking
		r.Post("/api/book-appointment/", bookingHandler.BookAppointment)
	})
}

// bookingLimiter shares counters through Redis when it is configured.
func bookingLimiter(deps Deps, log *zap.Logger) middleware.Limiter {
	limits := deps.Config.RateLimit
	if deps.Redis != nil {
		log.Info("Booking rate limit backed by redis",
			zap.Int("limit", limits.Bookings),
			zap.Duration("window", limits.Window))
		return middleware.NewRedisLimiter(deps.Redis, limits.Bookings, limits.Window)
	}

	log.Info("Booking rate limit kept in memory",
		zap.Int("limit", limits.Bookings),
		zap.Duration("window", limits.Window))
	return middleware.NewMemoryLimiter(limits.Bookings, limits.Window)
}
