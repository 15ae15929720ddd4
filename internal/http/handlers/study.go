package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/astralnotes/astral-backend/internal/http/response"
	"github.com/astralnotes/astral-backend/internal/platform/apierr"
	"github.com/astralnotes/astral-backend/internal/platform/dbctx"
	"github.com/astralnotes/astral-backend/internal/platform/logger"
	"github.com/astralnotes/astral-backend/internal/requestdata"
	"github.com/astralnotes/astral-backend/internal/services"
)

var errModelUnavailable = errors.New("model call failed")

type StudyHandler struct {
	log   *logger.Logger
	study services.StudyService
}

func NewStudyHandler(log *logger.Logger, study services.StudyService) *StudyHandler {
	return &StudyHandler{log: log.With("handler", "StudyHandler"), study: study}
}

type tutorRequest struct {
	Question string `json:"question"`
	PlanetID string `json:"planet_id"`
}

type quizRequest struct {
	PlanetID string `json:"planet_id"`
	Topic    string `json:"topic"`
}

func (h *StudyHandler) AITutor(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req tutorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_question", errors.New("question is required"))
		return
	}
	planetID, ok := parsePlanetID(c, req.PlanetID)
	if !ok {
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	answer, err := h.study.AnswerQuestion(dbc, rd.UserID, planetID, req.Question)
	if err != nil {
		h.respondStudyError(c, "ai tutor failed", planetID, err)
		return
	}
	response.RespondOK(c, gin.H{"answer": answer})
}

func (h *StudyHandler) QuizGenerator(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	planetID, ok := parsePlanetID(c, req.PlanetID)
	if !ok {
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	quiz, err := h.study.GenerateQuiz(dbc, rd.UserID, planetID, strings.TrimSpace(req.Topic))
	if err != nil {
		h.respondStudyError(c, "quiz generation failed", planetID, err)
		return
	}
	response.RespondOK(c, gin.H{"quiz": quiz})
}

func (h *StudyHandler) Summarize(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}
	planetID, ok := parsePlanetID(c, req.PlanetID)
	if !ok {
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	summary, err := h.study.Summarize(dbc, rd.UserID, planetID, strings.TrimSpace(req.Topic))
	if err != nil {
		h.respondStudyError(c, "summarize failed", planetID, err)
		return
	}
	response.RespondOK(c, gin.H{"summary": summary})
}

func (h *StudyHandler) respondStudyError(c *gin.Context, msg string, planetID uuid.UUID, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		response.RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	if errors.Is(err, services.ErrPlanetNotFound) {
		response.RespondError(c, http.StatusNotFound, "planet_not_found", services.ErrPlanetNotFound)
		return
	}
	h.log.Error(msg, "planet_id", planetID, "error", err)
	response.RespondError(c, http.StatusBadGateway, "llm_failed", errModelUnavailable)
}
