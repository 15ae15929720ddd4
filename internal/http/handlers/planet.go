package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/astralnotes/astral-backend/internal/http/response"
	"github.com/astralnotes/astral-backend/internal/platform/dbctx"
	"github.com/astralnotes/astral-backend/internal/platform/logger"
	"github.com/astralnotes/astral-backend/internal/requestdata"
	"github.com/astralnotes/astral-backend/internal/services"
)

var errStoreUnavailable = errors.New("store operation failed")

type PlanetHandler struct {
	log     *logger.Logger
	planets services.PlanetService
}

func NewPlanetHandler(log *logger.Logger, planets services.PlanetService) *PlanetHandler {
	return &PlanetHandler{log: log.With("handler", "PlanetHandler"), planets: planets}
}

func (h *PlanetHandler) ListPlanets(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	planets, err := h.planets.ListPlanets(dbc, rd.UserID)
	if err != nil {
		h.log.Error("list planets failed", "user_id", rd.UserID, "error", err)
		response.RespondError(c, http.StatusBadGateway, "store_failed", errStoreUnavailable)
		return
	}
	response.RespondOK(c, planets)
}

func (h *PlanetHandler) CreatePlanet(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_name", errors.New("name is required"))
		return
	}
	color := strings.TrimSpace(c.PostForm("color"))

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	planet, err := h.planets.CreatePlanet(dbc, rd.UserID, name, color)
	if err != nil {
		h.log.Error("create planet failed", "user_id", rd.UserID, "error", err)
		response.RespondError(c, http.StatusBadGateway, "store_failed", errStoreUnavailable)
		return
	}
	response.RespondOK(c, planet)
}
