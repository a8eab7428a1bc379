package partner

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/warehouse/internal/httpx"
)

// Handler exposes partner HTTP endpoints.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type penaltyRequest struct {
	Period *int `json:"period" validate:"required"`
}

// RegisterRoutes mounts the partner routes. Commands go through guard.
func (h *Handler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Route("/api/v1/partners", func(r chi.Router) {
		r.Get("/", h.listPartners)
		r.With(guard).Post("/", h.registerPartner)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getPartner)
			r.Get("/summary", h.summary)
			r.Get("/transactions", h.listTransactions)

			r.Group(func(r chi.Router) {
				r.Use(guard)
				r.Post("/acquisitions", h.acquire)
				r.Post("/sales", h.sell)
				r.Post("/sales/{tx}/payment", h.paySale)
				r.Post("/penalties", h.applyPenalty)
			})
		})
	})
}

func (h *Handler) registerPartner(w http.ResponseWriter, r *http.Request) {
	var req RegisterPartnerRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	p, err := h.service.RegisterPartner(r.Context(), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, p)
}

func (h *Handler) listPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.service.ListPartners(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, partners)
}

func (h *Handler) getPartner(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPartner(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

// summary answers with the one-line display form.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPartner(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(p.String() + "\n"))
}

func (h *Handler) acquire(w http.ResponseWriter, r *http.Request) {
	var req AcquireRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	tx, err := h.service.Acquire(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, tx)
}

func (h *Handler) sell(w http.ResponseWriter, r *http.Request) {
	var req SellRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	tx, err := h.service.Sell(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, tx)
}

func (h *Handler) paySale(w http.ResponseWriter, r *http.Request) {
	tx, err := h.service.PaySale(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tx"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, tx)
}

func (h *Handler) applyPenalty(w http.ResponseWriter, r *http.Request) {
	var req penaltyRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	p, err := h.service.ApplyPenalty(r.Context(), chi.URLParam(r, "id"), *req.Period)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.service.ListTransactions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, txs)
}
