package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aqarmatch/api/internal/application/submission"
	"github.com/aqarmatch/api/internal/domain"
	"github.com/aqarmatch/api/internal/pkg/validate"
)

// SubmissionLinkHandler manages tokenized public submission links and
// the unauthenticated submission endpoints they unlock.
type SubmissionLinkHandler struct {
	svc submission.Service
}

func NewSubmissionLinkHandler(svc submission.Service) *SubmissionLinkHandler {
	return &SubmissionLinkHandler{svc: svc}
}

// Create issues a new link for the user in the path. The response is
// the only place the raw token ever appears.
func (h *SubmissionLinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSubmissionLinkRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	res, err := h.svc.CreateLink(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *SubmissionLinkHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.svc.ListLinks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (h *SubmissionLinkHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeactivateLink(r.Context(), chi.URLParam(r, "linkID")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "submission link deactivated"})
}

// SubmitOffer is the public endpoint behind a shared link. The token
// travels in the path; a valid one creates the offer on behalf of the
// link owner and kicks off matching like any authenticated creation.
func (h *SubmissionLinkHandler) SubmitOffer(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	o, err := h.svc.SubmitOffer(r.Context(), chi.URLParam(r, "token"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *SubmissionLinkHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	req2, err := h.svc.SubmitRequest(r.Context(), chi.URLParam(r, "token"), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req2)
}
