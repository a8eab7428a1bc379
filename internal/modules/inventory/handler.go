package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/warehouse/internal/httpx"
)

// Handler exposes read-only inventory endpoints. Stock enters and leaves
// through partner acquisitions and sales.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/inventory", func(r chi.Router) {
		// Listings accept ?partner_id=...&product_id=...
		r.Get("/batches", h.listBatches)
		r.Get("/batches/{id}", h.getBatch)
		r.Get("/available", h.available)
	})
}

func (h *Handler) listBatches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	batches, err := h.service.ListBatches(r.Context(), Filter{
		PartnerID: q.Get("partner_id"),
		ProductID: q.Get("product_id"),
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, batches)
}

func (h *Handler) getBatch(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetBatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, b)
}

func (h *Handler) available(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	partnerID, productID := q.Get("partner_id"), q.Get("product_id")
	if partnerID == "" || productID == "" {
		httpx.Respond(w, http.StatusBadRequest, map[string]string{"error": "partner_id and product_id are required"})
		return
	}
	n, err := h.service.Available(r.Context(), partnerID, productID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]interface{}{
		"partner_id": partnerID,
		"product_id": productID,
		"available":  n,
	})
}
