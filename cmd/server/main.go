package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"workshop_hub/internal/api"
	"workshop_hub/internal/app/service"
	"workshop_hub/internal/common/security"
	"workshop_hub/internal/domain/repository"
	"workshop_hub/internal/platform/cache"
	"workshop_hub/internal/platform/config"
	"workshop_hub/internal/platform/database"
	"workshop_hub/internal/platform/filestore"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("Could not run schema migration: %v", err)
	}
	fmt.Println("Schema ready.")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize the legacy file store
	store, err := filestore.New(config.AppConfig.LegacyStorePath)
	if err != nil {
		log.Fatalf("Could not open legacy store: %v", err)
	}
	fmt.Println("Legacy store ready.")

	// 6. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	workshopRepo := repository.NewPgWorkshopRepository(database.DB)
	participantRepo := repository.NewPgParticipantRepository(database.DB)
	lessonRepo := repository.NewPgLessonRepository(database.DB)
	challengeRepo := repository.NewPgChallengeRepository(database.DB)
	examRepo := repository.NewPgExamRepository(database.DB)
	pointsRepo := repository.NewPgPointsRepository(database.DB)

	// 7. Initialize Services
	authService := service.NewAuthService(userRepo)
	workshopService := service.NewWorkshopService(workshopRepo)
	participationService := service.NewParticipationService(participantRepo, workshopRepo)
	pointsService := service.NewPointsService(pointsRepo, cache.RDB)
	lessonService := service.NewLessonService(lessonRepo, workshopRepo, pointsService)
	challengeService := service.NewChallengeService(challengeRepo, workshopRepo, participationService, pointsService)
	examService := service.NewExamService(examRepo, workshopRepo, participationService, pointsService)
	legacyService := service.NewLegacyService(store)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(
		authService,
		workshopService,
		participationService,
		lessonService,
		challengeService,
		examService,
		pointsService,
		legacyService,
	)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
