package transaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/warehouse/internal/httpx"
)

// Handler exposes ledger HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/transactions", func(r chi.Router) {
		r.Get("/", h.listByPartner) // GET /api/v1/transactions?partner_id=...
		r.Get("/{id}", h.getTransaction)
	})
}

func (h *Handler) listByPartner(w http.ResponseWriter, r *http.Request) {
	txs, err := h.service.ListPartnerTransactions(r.Context(), r.URL.Query().Get("partner_id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if txs == nil {
		txs = []*Transaction{}
	}
	httpx.Respond(w, http.StatusOK, txs)
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.service.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, tx)
}
