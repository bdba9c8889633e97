package handler

import (
	"net/http"
	"strconv"
	"workshop_hub/internal/api/middleware"
	"workshop_hub/internal/app/service"
	"workshop_hub/internal/common"
	"workshop_hub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type LeaderboardHandler struct {
	pointsService *service.PointsService
}

func NewLeaderboardHandler(pointsService *service.PointsService) *LeaderboardHandler {
	return &LeaderboardHandler{pointsService: pointsService}
}

// RegisterRoutes mounts under /leaderboard.
func (h *LeaderboardHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(public chi.Router) {
		public.Use(middleware.OptionalAuth)
		public.Get("/", h.leaderboard)
	})
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/update", h.update)
	})
}

// RegisterPointsRoutes mounts the per-user points lookups.
func (h *LeaderboardHandler) RegisterPointsRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Get("/me/points", h.myPoints)
		authed.Get("/users/{userID}/points", h.userPoints)
	})
}

type leaderboardResponse struct {
	Leaderboard     []model.LeaderboardEntry `json:"leaderboard"`
	CurrentUserRank *model.LeaderboardEntry  `json:"current_user_rank,omitempty"`
}

func (h *LeaderboardHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.pointsService.Leaderboard(r.Context(), limit)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}

	resp := leaderboardResponse{Leaderboard: entries}
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		rank, err := h.pointsService.UserRank(r.Context(), userID)
		if err != nil {
			common.RespondWithDomainError(w, err)
			return
		}
		resp.CurrentUserRank = rank
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *LeaderboardHandler) update(w http.ResponseWriter, r *http.Request) {
	if err := h.pointsService.UpdateRankings(r.Context()); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "rankings updated"})
}

func (h *LeaderboardHandler) myPoints(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing user context")
		return
	}
	h.respondPoints(w, r, userID)
}

func (h *LeaderboardHandler) userPoints(w http.ResponseWriter, r *http.Request) {
	h.respondPoints(w, r, chi.URLParam(r, "userID"))
}

func (h *LeaderboardHandler) respondPoints(w http.ResponseWriter, r *http.Request, userID string) {
	entry, err := h.pointsService.UserRank(r.Context(), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, entry)
}
