package fulfillment

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers fulfillment routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Show)
		r.Get("/requirements", h.ShowRequirements)
		r.Get("/capacity", h.ShowCapacity)

		r.Post("/cancel", h.Cancel)
		r.Patch("/status", h.Advance)
		r.Post("/generate-production-orders", h.GenerateWOs)
		r.Post("/work-orders", h.CreateWorkOrder)
		r.Post("/work-orders/{woID}/{transition}", h.TransitionWorkOrder)
		r.Post("/payments", h.RecordPayment)
		r.Post("/ship", h.Ship)
		r.Patch("/address", h.UpdateAddress)
		r.Delete("/", h.Delete)
	})
}
