package handler

import (
	"encoding/json"
	"net/http"
	"workshop_hub/internal/api/middleware"
	"workshop_hub/internal/app/service"
	"workshop_hub/internal/common"
	"workshop_hub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ParticipantHandler struct {
	participationService *service.ParticipationService
}

func NewParticipantHandler(participationService *service.ParticipationService) *ParticipantHandler {
	return &ParticipantHandler{participationService: participationService}
}

// RegisterRoutes mounts under /workshops; every route requires auth.
func (h *ParticipantHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/{workshopID}/join", h.join)
		authed.Get("/{workshopID}/participants", h.list)
		authed.Patch("/{workshopID}/participants/{participantID}", h.setStatus)
		authed.Delete("/{workshopID}/participants/{participantID}", h.remove)
		authed.Get("/joined", h.myParticipations)
	})
}

func (h *ParticipantHandler) join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing user context")
		return
	}

	participant, err := h.participationService.Join(r.Context(), chi.URLParam(r, "workshopID"), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, participant)
}

// list returns a grouped view without a status filter, a flat list with one.
func (h *ParticipantHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	workshopID := chi.URLParam(r, "workshopID")

	statusParam := r.URL.Query().Get("status")
	if statusParam == "" {
		grouped, err := h.participationService.GroupedForWorkshop(r.Context(), workshopID, userID)
		if err != nil {
			common.RespondWithDomainError(w, err)
			return
		}
		common.RespondWithJSON(w, http.StatusOK, grouped)
		return
	}

	status := model.ParticipantStatus(statusParam)
	participants, err := h.participationService.ListForWorkshop(r.Context(), workshopID, userID, &status)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, participants)
}

func (h *ParticipantHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error())
		return
	}

	participant, err := h.participationService.SetStatus(
		r.Context(),
		chi.URLParam(r, "workshopID"),
		chi.URLParam(r, "participantID"),
		userID,
		model.ParticipantStatus(req.Status),
	)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, participant)
}

func (h *ParticipantHandler) remove(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	err := h.participationService.Remove(
		r.Context(),
		chi.URLParam(r, "workshopID"),
		chi.URLParam(r, "participantID"),
		userID,
	)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ParticipantHandler) myParticipations(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	summary, err := h.participationService.MyParticipations(r.Context(), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, summary)
}
