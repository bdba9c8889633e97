package api

import (
	"net/http"
	"time"
	"workshop_hub/internal/api/handler"
	"workshop_hub/internal/app/service"
	"workshop_hub/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	workshopService *service.WorkshopService,
	participationService *service.ParticipationService,
	lessonService *service.LessonService,
	challengeService *service.ChallengeService,
	examService *service.ExamService,
	pointsService *service.PointsService,
	legacyService *service.LegacyService,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Parses a bearer token when present; the Authenticator middleware decides
	// per route whether one is required.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(authService)
	workshopHandler := handler.NewWorkshopHandler(workshopService, lessonService, challengeService, examService, pointsService)
	participantHandler := handler.NewParticipantHandler(participationService)
	lessonHandler := handler.NewLessonHandler(lessonService)
	challengeHandler := handler.NewChallengeHandler(challengeService)
	examHandler := handler.NewExamHandler(examService)
	leaderboardHandler := handler.NewLeaderboardHandler(pointsService)

	r.Route("/api/v2", func(v2 chi.Router) {
		v2.Group(func(auth chi.Router) {
			authHandler.RegisterRoutes(auth)
		})

		v2.Route("/workshops", func(workshops chi.Router) {
			workshopHandler.RegisterRoutes(workshops)
			participantHandler.RegisterRoutes(workshops)
		})

		v2.Route("/lessons", lessonHandler.RegisterRoutes)
		v2.Route("/challenges", challengeHandler.RegisterRoutes)
		v2.Route("/submissions", challengeHandler.RegisterSubmissionRoutes)
		v2.Route("/exams", examHandler.RegisterRoutes)
		v2.Route("/attempts", examHandler.RegisterAttemptRoutes)
		v2.Route("/leaderboard", leaderboardHandler.RegisterRoutes)
		leaderboardHandler.RegisterPointsRoutes(v2)
	})

	// Legacy v1 surface over the JSON file store.
	legacyHandler := handler.NewLegacyHandler(legacyService)
	r.Route("/api/workshop", legacyHandler.RegisterRoutes)

	return r
}
