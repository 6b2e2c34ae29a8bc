package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aqarmatch/api/internal/application/offer"
	"github.com/aqarmatch/api/internal/domain"
	"github.com/aqarmatch/api/internal/pkg/validate"
	"github.com/aqarmatch/api/internal/transport/http/middleware"
)

// OfferHandler handles offer CRUD endpoints.
type OfferHandler struct {
	svc offer.Service
}

func NewOfferHandler(svc offer.Service) *OfferHandler { return &OfferHandler{svc: svc} }

func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	o, err := h.svc.Create(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.OfferFilter{
		Type:     q.Get("type"),
		Usage:    q.Get("usage"),
		City:     q.Get("city"),
		District: q.Get("district"),
		BrokerID: q.Get("broker_id"),
		MinPrice: floatParam(q.Get("min_price")),
		MaxPrice: floatParam(q.Get("max_price")),
		MinArea:  floatParam(q.Get("min_area")),
		MaxArea:  floatParam(q.Get("max_area")),
	}
	offers, err := h.svc.List(r.Context(), f)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	o, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), claims.UserID, claims.Role, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OfferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), claims.UserID, claims.Role); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "offer deleted"})
}

func floatParam(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
