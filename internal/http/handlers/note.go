package handlers

import (
	"errors"
	"fmt"
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

const maxUploadBytes = 32 << 20

// parsePlanetID validates the planet_id carried in a request, distinguishing
// an absent value from a malformed one. On failure it writes the 400 response
// and returns false.
func parsePlanetID(c *gin.Context, raw string) (uuid.UUID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_planet_id", errors.New("planet_id is required"))
		return uuid.Nil, false
	}
	planetID, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_planet_id", errors.New("planet_id must be a uuid"))
		return uuid.Nil, false
	}
	return planetID, true
}

type NoteHandler struct {
	log   *logger.Logger
	notes services.NoteService
}

func NewNoteHandler(log *logger.Logger, notes services.NoteService) *NoteHandler {
	return &NoteHandler{log: log.With("handler", "NoteHandler"), notes: notes}
}

func (h *NoteHandler) ListNotes(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	planetID, ok := parsePlanetID(c, c.Query("planet_id"))
	if !ok {
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	notes, err := h.notes.ListNotes(dbc, planetID, rd.UserID)
	if err != nil {
		h.log.Error("list notes failed", "user_id", rd.UserID, "planet_id", planetID, "error", err)
		response.RespondError(c, http.StatusBadGateway, "store_failed", errStoreUnavailable)
		return
	}
	response.RespondOK(c, notes)
}

func (h *NoteHandler) UploadNote(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}

	planetID, ok := parsePlanetID(c, c.PostForm("planet_id"))
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", errors.New("file is required"))
		return
	}
	file, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	defer file.Close()

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	note, err := h.notes.UploadNote(dbc, rd.UserID, planetID, fh.Filename, file)
	if err != nil {
		if errors.Is(err, services.ErrPlanetNotFound) {
			response.RespondError(c, http.StatusNotFound, "planet_not_found", services.ErrPlanetNotFound)
			return
		}
		h.log.Error("upload note failed",
			"user_id", rd.UserID,
			"planet_id", planetID,
			"filename", fh.Filename,
			"error", err,
		)
		response.RespondError(c, http.StatusBadGateway, "storage_failed", errors.New("note upload failed"))
		return
	}
	response.RespondOK(c, note)
}

func (h *NoteHandler) DeleteNote(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	noteID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_note_id", errors.New("note id must be a uuid"))
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	if err := h.notes.DeleteNote(dbc, rd.UserID, noteID); err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			response.RespondError(c, http.StatusNotFound, "note_not_found", services.ErrNoteNotFound)
			return
		}
		h.log.Error("delete note failed", "user_id", rd.UserID, "note_id", noteID, "error", err)
		response.RespondError(c, http.StatusBadGateway, "store_failed", errStoreUnavailable)
		return
	}
	response.RespondOK(c, gin.H{"deleted": noteID})
}

func (h *NoteHandler) DownloadNote(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	noteID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_note_id", errors.New("note id must be a uuid"))
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	note, rc, err := h.notes.DownloadNote(dbc, rd.UserID, noteID)
	if err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			response.RespondError(c, http.StatusNotFound, "note_not_found", services.ErrNoteNotFound)
			return
		}
		h.log.Error("download note failed", "user_id", rd.UserID, "note_id", noteID, "error", err)
		response.RespondError(c, http.StatusBadGateway, "storage_failed", errors.New("note download failed"))
		return
	}
	defer rc.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", note.Title),
	}
	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", rc, extraHeaders)
}
