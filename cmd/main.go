package main

import (
	"fmt"
	"os"

	"github.com/astralnotes/astral-backend/internal/data/db"
	"github.com/astralnotes/astral-backend/internal/data/repos"
	"github.com/astralnotes/astral-backend/internal/http/handlers"
	"github.com/astralnotes/astral-backend/internal/http/middleware"
	"github.com/astralnotes/astral-backend/internal/modules/study"
	"github.com/astralnotes/astral-backend/internal/platform/envutil"
	"github.com/astralnotes/astral-backend/internal/platform/gcs"
	"github.com/astralnotes/astral-backend/internal/platform/groq"
	"github.com/astralnotes/astral-backend/internal/platform/identity"
	"github.com/astralnotes/astral-backend/internal/platform/logger"
	"github.com/astralnotes/astral-backend/internal/server"
	"github.com/astralnotes/astral-backend/internal/services"
)

func main() {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	planetRepo := repos.NewPlanetRepo(thePG, log)
	noteRepo := repos.NewNoteRepo(thePG, log)

	// Platform clients
	verifier, err := identity.NewVerifierFromEnv(log)
	if err != nil {
		log.Fatal("Could not init identity verifier", "error", err)
	}
	bucketService, err := gcs.NewBucketService(log)
	if err != nil {
		log.Fatal("Could not init BucketService", "error", err)
	}
	groqClient, err := groq.NewClient(log)
	if err != nil {
		log.Fatal("Could not init GroqClient", "error", err)
	}
	fetcher := study.NewContentFetcher(log)

	// Services
	planetService := services.NewPlanetService(thePG, log, planetRepo)
	noteService := services.NewNoteService(thePG, log, bucketService, noteRepo, planetRepo)
	studyService := services.NewStudyService(thePG, log, noteRepo, planetRepo, fetcher, groqClient)

	// Handlers + middleware
	healthHandler := handlers.NewHealthHandler()
	planetHandler := handlers.NewPlanetHandler(log, planetService)
	noteHandler := handlers.NewNoteHandler(log, noteService)
	studyHandler := handlers.NewStudyHandler(log, studyService)
	authMiddleware := middleware.NewAuthMiddleware(log, verifier)

	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		AuthMiddleware: authMiddleware,
		HealthHandler:  healthHandler,
		PlanetHandler:  planetHandler,
		NoteHandler:    noteHandler,
		StudyHandler:   studyHandler,
	})

	port := envutil.String("PORT", "8080")
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
