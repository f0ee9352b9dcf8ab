package wire

import (
	"appointment-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	availabilityHandler *adaptor.AvailabilityHandler,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/services/ - Active service catalog
	r.Get("/api/services/", catalogHandler.GetServices)

	// GET /api/available-staff/?date= - Staff with an active rule on that weekday
	r.Get("/api/available-staff/", availabilityHandler.GetAvailableStaff)

	// GET /api/available-slots/?date=&service_id=&staff_id= - Free start times
	r.Get("/api/available-slots/", availabilityHandler.GetAvailableSlots)
}
