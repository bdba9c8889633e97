package handler

import (
	"encoding/json"
	"net/http"
	"workshop_hub/internal/api/middleware"
	"workshop_hub/internal/app/service"
	"workshop_hub/internal/common"

	"github.com/go-chi/chi/v5"
)

type ExamHandler struct {
	examService *service.ExamService
}

func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// RegisterRoutes mounts under /exams; attempt submission lives under
// /attempts via RegisterAttemptRoutes.
func (h *ExamHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Get("/{examID}", h.get)
		authed.Patch("/{examID}", h.update)
		authed.Delete("/{examID}", h.delete)
		authed.Post("/{examID}/questions", h.addQuestion)
		authed.Post("/{examID}/start", h.start)
		authed.Get("/{examID}/attempts", h.attempts)
	})
}

func (h *ExamHandler) RegisterAttemptRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/{attemptID}/submit", h.submit)
	})
}

func (h *ExamHandler) get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	exam, err := h.examService.Get(r.Context(), chi.URLParam(r, "examID"), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, exam)
}

func (h *ExamHandler) update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.UpdateExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error())
		return
	}

	exam, err := h.examService.Update(r.Context(), chi.URLParam(r, "examID"), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, exam)
}

func (h *ExamHandler) delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	if err := h.examService.Delete(r.Context(), chi.URLParam(r, "examID"), userID); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ExamHandler) addQuestion(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.AddQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error())
		return
	}

	question, err := h.examService.AddQuestion(r.Context(), chi.URLParam(r, "examID"), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, question)
}

func (h *ExamHandler) start(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing user context")
		return
	}

	attempt, err := h.examService.Start(r.Context(), chi.URLParam(r, "examID"), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, attempt)
}

func (h *ExamHandler) submit(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error())
		return
	}

	attempt, err := h.examService.Submit(r.Context(), chi.URLParam(r, "attemptID"), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, attempt)
}

func (h *ExamHandler) attempts(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	attempts, err := h.examService.Attempts(r.Context(), chi.URLParam(r, "examID"), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, attempts)
}
