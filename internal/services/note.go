package services

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/astralnotes/astral-backend/internal/data/repos"
	types "github.com/astralnotes/astral-backend/internal/domain"
	"github.com/astralnotes/astral-backend/internal/platform/dbctx"
	"github.com/astralnotes/astral-backend/internal/platform/gcs"
	"github.com/astralnotes/astral-backend/internal/platform/logger"
)

var (
	ErrPlanetNotFound = fmt.Errorf("planet not found")
	ErrNoteNotFound   = fmt.Errorf("note not found")
)

type NoteService interface {
	ListNotes(dbc dbctx.Context, planetID, userID uuid.UUID) ([]*types.Note, error)
	// UploadNote stores the bytes under {user_id}/{planet_id}/{filename}, then
	// inserts the metadata row. If the insert fails the just-uploaded blob is
	// deleted best-effort so no orphan is left behind.
	UploadNote(dbc dbctx.Context, userID, planetID uuid.UUID, filename string, file io.Reader) (*types.Note, error)
	// DeleteNote removes the metadata row, then deletes the blob best-effort.
	DeleteNote(dbc dbctx.Context, userID, noteID uuid.UUID) error
	// DownloadNote streams the stored bytes. The caller closes the reader.
	DownloadNote(dbc dbctx.Context, userID, noteID uuid.UUID) (*types.Note, io.ReadCloser, error)
}

type noteService struct {
	db         *gorm.DB
	log        *logger.Logger
	bucket     gcs.BucketService
	noteRepo   repos.NoteRepo
	planetRepo repos.PlanetRepo
}

func NewNoteService(
	db *gorm.DB,
	baseLog *logger.Logger,
	bucket gcs.BucketService,
	noteRepo repos.NoteRepo,
	planetRepo repos.PlanetRepo,
) NoteService {
	return &noteService{
		db:         db,
		log:        baseLog.With("service", "NoteService"),
		bucket:     bucket,
		noteRepo:   noteRepo,
		planetRepo: planetRepo,
	}
}

func (ns *noteService) ListNotes(dbc dbctx.Context, planetID, userID uuid.UUID) ([]*types.Note, error) {
	return ns.noteRepo.GetByPlanetAndUser(dbc, planetID, userID)
}

func (ns *noteService) UploadNote(dbc dbctx.Context, userID, planetID uuid.UUID, filename string, file io.Reader) (*types.Note, error) {
	planet, err := ns.planetRepo.GetOwned(dbc, planetID, userID)
	if err != nil {
		return nil, fmt.Errorf("check planet ownership: %w", err)
	}
	if planet == nil {
		return nil, ErrPlanetNotFound
	}

	key := fmt.Sprintf("%s/%s/%s", userID, planetID, filename)
	if err := ns.bucket.UploadFile(dbc, key, file); err != nil {
		return nil, fmt.Errorf("upload note blob: %w", err)
	}

	note := &types.Note{
		ID:         uuid.New(),
		PlanetID:   planetID,
		UserID:     userID,
		Title:      filename,
		StorageKey: key,
		FileURL:    ns.bucket.GetPublicURL(key),
	}
	if _, err := ns.noteRepo.Create(dbc, []*types.Note{note}); err != nil {
		ns.log.Error("note insert failed after upload, compensating",
			"storage_key", key,
			"error", err,
		)
		if delErr := ns.bucket.DeleteFile(dbc, key); delErr != nil {
			ns.log.Warn("compensating blob delete failed, orphan left behind",
				"storage_key", key,
				"error", delErr,
			)
		}
		return nil, fmt.Errorf("insert note metadata: %w", err)
	}
	return note, nil
}

// ownedNote loads one note and checks the caller owns it. Missing and
// foreign notes are indistinguishable to the caller.
func (ns *noteService) ownedNote(dbc dbctx.Context, userID, noteID uuid.UUID) (*types.Note, error) {
	notes, err := ns.noteRepo.GetByIDs(dbc, []uuid.UUID{noteID})
	if err != nil {
		return nil, fmt.Errorf("load note: %w", err)
	}
	if len(notes) == 0 || notes[0].UserID != userID {
		return nil, ErrNoteNotFound
	}
	return notes[0], nil
}

func (ns *noteService) DeleteNote(dbc dbctx.Context, userID, noteID uuid.UUID) error {
	note, err := ns.ownedNote(dbc, userID, noteID)
	if err != nil {
		return err
	}
	if err := ns.noteRepo.FullDeleteByIDs(dbc, []uuid.UUID{note.ID}); err != nil {
		return fmt.Errorf("delete note metadata: %w", err)
	}
	// The row is gone either way; a blob left behind is only a storage leak.
	if note.StorageKey != "" {
		if err := ns.bucket.DeleteFile(dbc, note.StorageKey); err != nil {
			ns.log.Warn("note blob delete failed, orphan left behind",
				"storage_key", note.StorageKey,
				"error", err,
			)
		}
	}
	return nil
}

func (ns *noteService) DownloadNote(dbc dbctx.Context, userID, noteID uuid.UUID) (*types.Note, io.ReadCloser, error) {
	note, err := ns.ownedNote(dbc, userID, noteID)
	if err != nil {
		return nil, nil, err
	}
	if note.StorageKey == "" {
		return nil, nil, ErrNoteNotFound
	}
	rc, err := ns.bucket.DownloadFile(dbc.Ctx, note.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("open note blob: %w", err)
	}
	return note, rc, nil
}
