package handler

import (
	"encoding/json"
	"net/http"
	"workshop_hub/internal/api/middleware"
	"workshop_hub/internal/app/service"
	"workshop_hub/internal/common"

	"github.com/go-chi/chi/v5"
)

type ChallengeHandler struct {
	challengeService *service.ChallengeService
}

func NewChallengeHandler(challengeService *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

// RegisterRoutes mounts under /challenges; submission review lives under
// /submissions via RegisterSubmissionRoutes.
func (h *ChallengeHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Patch("/{challengeID}", h.update)
		authed.Delete("/{challengeID}", h.delete)
		authed.Post("/{challengeID}/submit", h.submit)
		authed.Get("/{challengeID}/submissions", h.listSubmissions)
	})
}

func (h *ChallengeHandler) RegisterSubmissionRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/{submissionID}/review", h.review)
	})
}

func (h *ChallengeHandler) update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.UpdateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error())
		return
	}

	challenge, err := h.challengeService.Update(r.Context(), chi.URLParam(r, "challengeID"), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, challenge)
}

func (h *ChallengeHandler) delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	if err := h.challengeService.Delete(r.Context(), chi.URLParam(r, "challengeID"), userID); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChallengeHandler) submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing user context")
		return
	}

	var req service.SubmitChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error())
		return
	}

	submission, err := h.challengeService.Submit(r.Context(), chi.URLParam(r, "challengeID"), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, submission)
}

func (h *ChallengeHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	submissions, err := h.challengeService.ListSubmissions(r.Context(), chi.URLParam(r, "challengeID"), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissions)
}

func (h *ChallengeHandler) review(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.ReviewSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error())
		return
	}

	submission, err := h.challengeService.Review(r.Context(), chi.URLParam(r, "submissionID"), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submission)
}
