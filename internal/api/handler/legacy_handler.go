package handler

import (
	"encoding/json"
	"net/http"
	"workshop_hub/internal/app/service"
	"workshop_hub/internal/common"
	"workshop_hub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

// LegacyHandler serves the v1 file-store API. Everything is public and every
// response uses the success/data/error envelope.
type LegacyHandler struct {
	legacyService *service.LegacyService
}

func NewLegacyHandler(legacyService *service.LegacyService) *LegacyHandler {
	return &LegacyHandler{legacyService: legacyService}
}

// RegisterRoutes mounts under /workshop (singular, as the original).
func (h *LegacyHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/registrations", h.registrations)
	r.Get("/{workshopID}", h.get)
	r.Patch("/{workshopID}/status", h.setStatus)
	r.Patch("/{workshopID}/signup", h.setSignup)
	r.Post("/{workshopID}/challenge", h.addChallenge)
	r.Get("/{workshopID}/challenges", h.listChallenges)
	r.Post("/{workshopID}/register", h.register)
}

func respondLegacyDomainError(w http.ResponseWriter, err error) {
	status := common.HTTPStatusFromError(err)
	if status == http.StatusInternalServerError {
		common.RespondLegacyError(w, status, "an unexpected error occurred")
		return
	}
	common.RespondLegacyError(w, status, err.Error())
}

func (h *LegacyHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateLegacyWorkshopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondLegacyError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	workshop, err := h.legacyService.CreateWorkshop(r.Context(), req)
	if err != nil {
		respondLegacyDomainError(w, err)
		return
	}
	common.RespondLegacy(w, http.StatusCreated, workshop)
}

func (h *LegacyHandler) list(w http.ResponseWriter, r *http.Request) {
	workshops, err := h.legacyService.ListWorkshops(r.Context())
	if err != nil {
		respondLegacyDomainError(w, err)
		return
	}
	common.RespondLegacy(w, http.StatusOK, workshops)
}

func (h *LegacyHandler) get(w http.ResponseWriter, r *http.Request) {
	workshop, err := h.legacyService.GetWorkshop(r.Context(), chi.URLParam(r, "workshopID"))
	if err != nil {
		respondLegacyDomainError(w, err)
		return
	}
	common.RespondLegacy(w, http.StatusOK, workshop)
}

func (h *LegacyHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondLegacyError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	workshop, err := h.legacyService.SetStatus(r.Context(), chi.URLParam(r, "workshopID"), model.WorkshopStatus(req.Status))
	if err != nil {
		respondLegacyDomainError(w, err)
		return
	}
	common.RespondLegacy(w, http.StatusOK, workshop)
}

func (h *LegacyHandler) setSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SignupEnabled *bool `json:"signup_enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SignupEnabled == nil {
		common.RespondLegacyError(w, http.StatusBadRequest, "signup_enabled is required")
		return
	}

	workshop, err := h.legacyService.SetSignupEnabled(r.Context(), chi.URLParam(r, "workshopID"), *req.SignupEnabled)
	if err != nil {
		respondLegacyDomainError(w, err)
		return
	}
	common.RespondLegacy(w, http.StatusOK, workshop)
}

func (h *LegacyHandler) addChallenge(w http.ResponseWriter, r *http.Request) {
	var req service.CreateLegacyChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondLegacyError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	challenge, err := h.legacyService.AddChallenge(r.Context(), chi.URLParam(r, "workshopID"), req)
	if err != nil {
		respondLegacyDomainError(w, err)
		return
	}
	common.RespondLegacy(w, http.StatusCreated, challenge)
}

func (h *LegacyHandler) listChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.legacyService.ListChallenges(r.Context(), chi.URLParam(r, "workshopID"))
	if err != nil {
		respondLegacyDomainError(w, err)
		return
	}
	common.RespondLegacy(w, http.StatusOK, challenges)
}

func (h *LegacyHandler) registrations(w http.ResponseWriter, r *http.Request) {
	registrations, err := h.legacyService.AllRegistrations(r.Context())
	if err != nil {
		respondLegacyDomainError(w, err)
		return
	}
	common.RespondLegacy(w, http.StatusOK, registrations)
}

func (h *LegacyHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondLegacyError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	registration, err := h.legacyService.Register(r.Context(), chi.URLParam(r, "workshopID"), req)
	if err != nil {
		respondLegacyDomainError(w, err)
		return
	}
	common.RespondLegacy(w, http.StatusCreated, registration)
}
