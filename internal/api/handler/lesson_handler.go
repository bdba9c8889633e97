package handler

import (
	"encoding/json"
	"net/http"
	"workshop_hub/internal/api/middleware"
	"workshop_hub/internal/app/service"
	"workshop_hub/internal/common"

	"github.com/go-chi/chi/v5"
)

type LessonHandler struct {
	lessonService *service.LessonService
}

func NewLessonHandler(lessonService *service.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService}
}

// RegisterRoutes mounts under /lessons.
func (h *LessonHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{lessonID}", h.get)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Patch("/{lessonID}", h.update)
		authed.Delete("/{lessonID}", h.delete)
		authed.Post("/{lessonID}/materials", h.addMaterial)
		authed.Delete("/{lessonID}/materials/{materialID}", h.deleteMaterial)
		authed.Post("/{lessonID}/complete", h.complete)
	})
}

func (h *LessonHandler) get(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.lessonService.Get(r.Context(), chi.URLParam(r, "lessonID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, lesson)
}

func (h *LessonHandler) update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.UpdateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error())
		return
	}

	lesson, err := h.lessonService.Update(r.Context(), chi.URLParam(r, "lessonID"), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, lesson)
}

func (h *LessonHandler) delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	if err := h.lessonService.Delete(r.Context(), chi.URLParam(r, "lessonID"), userID); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LessonHandler) addMaterial(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.AddMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error())
		return
	}

	material, err := h.lessonService.AddMaterial(r.Context(), chi.URLParam(r, "lessonID"), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, material)
}

func (h *LessonHandler) deleteMaterial(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	err := h.lessonService.DeleteMaterial(
		r.Context(),
		chi.URLParam(r, "lessonID"),
		chi.URLParam(r, "materialID"),
		userID,
	)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LessonHandler) complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing user context")
		return
	}

	resp, err := h.lessonService.Complete(r.Context(), chi.URLParam(r, "lessonID"), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
