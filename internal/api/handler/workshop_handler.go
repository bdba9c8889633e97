package handler

import (
	"encoding/json"
	"net/http"
	"workshop_hub/internal/api/middleware"
	"workshop_hub/internal/app/service"
	"workshop_hub/internal/common"

	"github.com/go-chi/chi/v5"
)

type WorkshopHandler struct {
	workshopService  *service.WorkshopService
	lessonService    *service.LessonService
	challengeService *service.ChallengeService
	examService      *service.ExamService
	pointsService    *service.PointsService
}

func NewWorkshopHandler(
	workshopService *service.WorkshopService,
	lessonService *service.LessonService,
	challengeService *service.ChallengeService,
	examService *service.ExamService,
	pointsService *service.PointsService,
) *WorkshopHandler {
	return &WorkshopHandler{
		workshopService:  workshopService,
		lessonService:    lessonService,
		challengeService: challengeService,
		examService:      examService,
		pointsService:    pointsService,
	}
}

func (h *WorkshopHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{workshopID}", h.get)
	r.Get("/{workshopID}/lessons", h.listLessons)
	r.Get("/{workshopID}/exams", h.listExams)
	r.Get("/{workshopID}/leaderboard", h.leaderboard)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/", h.create)
		authed.Get("/mine", h.mine)
		authed.Patch("/{workshopID}", h.update)
		authed.Delete("/{workshopID}", h.delete)
		authed.Get("/{workshopID}/challenges", h.listChallenges)
		authed.Post("/{workshopID}/lessons", h.createLesson)
		authed.Post("/{workshopID}/challenges", h.createChallenge)
		authed.Post("/{workshopID}/exams", h.createExam)
		authed.Get("/{workshopID}/progress", h.progress)
	})
}

func (h *WorkshopHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing user context")
		return
	}

	var req service.CreateWorkshopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error())
		return
	}

	workshop, err := h.workshopService.Create(r.Context(), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, workshop)
}

func (h *WorkshopHandler) list(w http.ResponseWriter, r *http.Request) {
	workshops, err := h.workshopService.List(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, workshops)
}

func (h *WorkshopHandler) mine(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	workshops, err := h.workshopService.ListByOwner(r.Context(), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, workshops)
}

func (h *WorkshopHandler) get(w http.ResponseWriter, r *http.Request) {
	workshop, err := h.workshopService.Get(r.Context(), chi.URLParam(r, "workshopID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, workshop)
}

func (h *WorkshopHandler) update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.UpdateWorkshopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error())
		return
	}

	workshop, err := h.workshopService.Update(r.Context(), chi.URLParam(r, "workshopID"), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, workshop)
}

func (h *WorkshopHandler) delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	if err := h.workshopService.Delete(r.Context(), chi.URLParam(r, "workshopID"), userID); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WorkshopHandler) createLesson(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.CreateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error())
		return
	}

	lesson, err := h.lessonService.Create(r.Context(), chi.URLParam(r, "workshopID"), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, lesson)
}

func (h *WorkshopHandler) listLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.lessonService.List(r.Context(), chi.URLParam(r, "workshopID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, lessons)
}

func (h *WorkshopHandler) createChallenge(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error())
		return
	}

	challenge, err := h.challengeService.Create(r.Context(), chi.URLParam(r, "workshopID"), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, challenge)
}

func (h *WorkshopHandler) listChallenges(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	challenges, err := h.challengeService.List(r.Context(), chi.URLParam(r, "workshopID"), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, challenges)
}

func (h *WorkshopHandler) createExam(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req service.CreateExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error())
		return
	}

	exam, err := h.examService.Create(r.Context(), chi.URLParam(r, "workshopID"), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, exam)
}

func (h *WorkshopHandler) listExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.examService.List(r.Context(), chi.URLParam(r, "workshopID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, exams)
}

func (h *WorkshopHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.pointsService.WorkshopLeaderboard(r.Context(), chi.URLParam(r, "workshopID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, entries)
}

func (h *WorkshopHandler) progress(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	progress, err := h.lessonService.Progress(r.Context(), chi.URLParam(r, "workshopID"), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, progress)
}
