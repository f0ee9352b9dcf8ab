package wire

import (
	"appointment-booking/internal/adaptor"
	"appointment-booking/pkg/middleware"
	"appointment-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AdminToken(config.Admin.TokenHash, log))

		r.Route("/services", func(r chi.Router) {
			r.Get("/", adminHandler.ListServices)
			r.Post("/", adminHandler.CreateService)
			r.Put("/{id}/", adminHandler.UpdateService)
		})

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", adminHandler.ListStaff)
			r.Post("/", adminHandler.CreateStaff)
			r.Put("/{id}/", adminHandler.UpdateStaff)
		})

		r.Route("/availability-rules", func(r chi.Router) {
			r.Get("/", adminHandler.ListRules)
			r.Post("/", adminHandler.CreateRule)
			r.Put("/{id}/", adminHandler.UpdateRule)
		})

		// Bookings are read-only here
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", adminHandler.ListBookings)
			r.Get("/{id}/", adminHandler.GetBooking)
		})
	})
}
