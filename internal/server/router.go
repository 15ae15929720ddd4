package server

import (
	"github.com/gin-gonic/gin"

	"github.com/astralnotes/astral-backend/internal/http/handlers"
	"github.com/astralnotes/astral-backend/internal/http/middleware"
	"github.com/astralnotes/astral-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *middleware.AuthMiddleware
	HealthHandler  *handlers.HealthHandler
	PlanetHandler  *handlers.PlanetHandler
	NoteHandler    *handlers.NoteHandler
	StudyHandler   *handlers.StudyHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(cfg.Log))

	// Public
	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.GET("/planets", cfg.PlanetHandler.ListPlanets)
	protected.POST("/planets", cfg.PlanetHandler.CreatePlanet)
	protected.GET("/notes", cfg.NoteHandler.ListNotes)
	protected.POST("/notes", cfg.NoteHandler.UploadNote)
	protected.DELETE("/notes/:id", cfg.NoteHandler.DeleteNote)
	protected.GET("/notes/:id/file", cfg.NoteHandler.DownloadNote)
	protected.POST("/ai-tutor", cfg.StudyHandler.AITutor)
	protected.POST("/quiz-generator", cfg.StudyHandler.QuizGenerator)
	protected.POST("/summarize", cfg.StudyHandler.Summarize)

	return router
}
