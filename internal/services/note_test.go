package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/astralnotes/astral-backend/internal/data/repos"
	types "github.com/astralnotes/astral-backend/internal/domain"
	"github.com/astralnotes/astral-backend/internal/platform/dbctx"
	"github.com/astralnotes/astral-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// memBucket stores objects in memory so upload round-trips are observable.
type memBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	deletes []string
}

func newMemBucket() *memBucket {
	return &memBucket{objects: map[string][]byte{}}
}

func (b *memBucket) UploadFile(dbc dbctx.Context, key string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return nil
}

func (b *memBucket) DeleteFile(dbc dbctx.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes = append(b.deletes, key)
	delete(b.objects, key)
	return nil
}

func (b *memBucket) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *memBucket) GetPublicURL(key string) string {
	return "https://storage.test/notes/" + key
}

type fakeNoteRepo struct {
	notes     []*types.Note
	createErr error
	deleteErr error
	creates   int
}

func (r *fakeNoteRepo) Create(dbc dbctx.Context, notes []*types.Note) ([]*types.Note, error) {
	r.creates++
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.notes = append(r.notes, notes...)
	return notes, nil
}

func (r *fakeNoteRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Note, error) {
	var out []*types.Note
	for _, n := range r.notes {
		for _, id := range ids {
			if n.ID == id {
				out = append(out, n)
			}
		}
	}
	return out, nil
}

func (r *fakeNoteRepo) GetByPlanetAndUser(dbc dbctx.Context, planetID, userID uuid.UUID) ([]*types.Note, error) {
	var out []*types.Note
	for _, n := range r.notes {
		if n.PlanetID == planetID && n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNoteRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	kept := r.notes[:0]
	for _, n := range r.notes {
		drop := false
		for _, id := range ids {
			if n.ID == id {
				drop = true
			}
		}
		if !drop {
			kept = append(kept, n)
		}
	}
	r.notes = kept
	return nil
}

type fakePlanetRepo struct {
	planets []*types.Planet
}

func (r *fakePlanetRepo) Create(dbc dbctx.Context, planets []*types.Planet) ([]*types.Planet, error) {
	r.planets = append(r.planets, planets...)
	return planets, nil
}

func (r *fakePlanetRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Planet, error) {
	var out []*types.Planet
	for _, p := range r.planets {
		for _, id := range ids {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *fakePlanetRepo) GetByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.Planet, error) {
	var out []*types.Planet
	for _, p := range r.planets {
		for _, id := range userIDs {
			if p.UserID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *fakePlanetRepo) GetOwned(dbc dbctx.Context, planetID, userID uuid.UUID) (*types.Planet, error) {
	for _, p := range r.planets {
		if p.ID == planetID && p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

var (
	_ repos.NoteRepo   = (*fakeNoteRepo)(nil)
	_ repos.PlanetRepo = (*fakePlanetRepo)(nil)
)

func seedOwnedPlanet(userID uuid.UUID) (*fakePlanetRepo, *types.Planet) {
	planet := &types.Planet{ID: uuid.New(), UserID: userID, Name: "Biology", Color: "#fff"}
	return &fakePlanetRepo{planets: []*types.Planet{planet}}, planet
}

func TestUploadNoteRoundTrip(t *testing.T) {
	userID := uuid.New()
	planetRepo, planet := seedOwnedPlanet(userID)
	noteRepo := &fakeNoteRepo{}
	bucket := newMemBucket()
	svc := NewNoteService(nil, testLogger(t), bucket, noteRepo, planetRepo)

	payload := []byte("cell structure notes")
	dbc := dbctx.Context{Ctx: context.Background()}
	note, err := svc.UploadNote(dbc, userID, planet.ID, "cells.txt", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("UploadNote: %v", err)
	}

	wantKey := fmt.Sprintf("%s/%s/cells.txt", userID, planet.ID)
	if note.StorageKey != wantKey {
		t.Fatalf("storage key: got %q want %q", note.StorageKey, wantKey)
	}
	if note.Title != "cells.txt" {
		t.Fatalf("title: got %q", note.Title)
	}
	if !strings.HasSuffix(note.FileURL, wantKey) {
		t.Fatalf("file url %q must end with key %q", note.FileURL, wantKey)
	}

	rc, err := bucket.DownloadFile(context.Background(), wantKey)
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	defer rc.Close()
	stored, _ := io.ReadAll(rc)
	if !bytes.Equal(stored, payload) {
		t.Fatalf("round trip: stored %q want %q", stored, payload)
	}
}

func TestUploadNoteCompensatesOnInsertFailure(t *testing.T) {
	userID := uuid.New()
	planetRepo, planet := seedOwnedPlanet(userID)
	noteRepo := &fakeNoteRepo{createErr: errors.New("insert blew up")}
	bucket := newMemBucket()
	svc := NewNoteService(nil, testLogger(t), bucket, noteRepo, planetRepo)

	dbc := dbctx.Context{Ctx: context.Background()}
	_, err := svc.UploadNote(dbc, userID, planet.ID, "f.txt", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error when insert fails")
	}

	wantKey := fmt.Sprintf("%s/%s/f.txt", userID, planet.ID)
	if len(bucket.deletes) != 1 || bucket.deletes[0] != wantKey {
		t.Fatalf("compensating delete: got %v want [%s]", bucket.deletes, wantKey)
	}
	if _, ok := bucket.objects[wantKey]; ok {
		t.Fatal("orphaned blob left behind")
	}
}

func TestUploadNoteRejectsForeignPlanet(t *testing.T) {
	owner := uuid.New()
	planetRepo, planet := seedOwnedPlanet(owner)
	noteRepo := &fakeNoteRepo{}
	bucket := newMemBucket()
	svc := NewNoteService(nil, testLogger(t), bucket, noteRepo, planetRepo)

	intruder := uuid.New()
	dbc := dbctx.Context{Ctx: context.Background()}
	_, err := svc.UploadNote(dbc, intruder, planet.ID, "f.txt", strings.NewReader("x"))
	if !errors.Is(err, ErrPlanetNotFound) {
		t.Fatalf("expected ErrPlanetNotFound, got %v", err)
	}
	if len(bucket.objects) != 0 {
		t.Fatal("nothing may be uploaded for a foreign planet")
	}
	if noteRepo.creates != 0 {
		t.Fatal("no insert may be attempted for a foreign planet")
	}
}

func TestDeleteNoteRemovesRowAndBlob(t *testing.T) {
	userID := uuid.New()
	planetRepo, planet := seedOwnedPlanet(userID)
	noteRepo := &fakeNoteRepo{}
	bucket := newMemBucket()
	svc := NewNoteService(nil, testLogger(t), bucket, noteRepo, planetRepo)

	dbc := dbctx.Context{Ctx: context.Background()}
	note, err := svc.UploadNote(dbc, userID, planet.ID, "old.txt", strings.NewReader("stale"))
	if err != nil {
		t.Fatalf("UploadNote: %v", err)
	}

	if err := svc.DeleteNote(dbc, userID, note.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if len(noteRepo.notes) != 0 {
		t.Fatalf("row still present: %+v", noteRepo.notes)
	}
	if _, ok := bucket.objects[note.StorageKey]; ok {
		t.Fatal("blob still present after delete")
	}
}

func TestDeleteNoteRejectsForeignNote(t *testing.T) {
	owner := uuid.New()
	planetRepo, planet := seedOwnedPlanet(owner)
	noteRepo := &fakeNoteRepo{}
	bucket := newMemBucket()
	svc := NewNoteService(nil, testLogger(t), bucket, noteRepo, planetRepo)

	dbc := dbctx.Context{Ctx: context.Background()}
	note, err := svc.UploadNote(dbc, owner, planet.ID, "mine.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("UploadNote: %v", err)
	}

	err = svc.DeleteNote(dbc, uuid.New(), note.ID)
	if !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
	if len(noteRepo.notes) != 1 {
		t.Fatal("foreign caller must not delete the row")
	}
	if _, ok := bucket.objects[note.StorageKey]; !ok {
		t.Fatal("foreign caller must not delete the blob")
	}
}

func TestDownloadNoteStreamsStoredBytes(t *testing.T) {
	userID := uuid.New()
	planetRepo, planet := seedOwnedPlanet(userID)
	noteRepo := &fakeNoteRepo{}
	bucket := newMemBucket()
	svc := NewNoteService(nil, testLogger(t), bucket, noteRepo, planetRepo)

	payload := []byte("krebs cycle notes")
	dbc := dbctx.Context{Ctx: context.Background()}
	uploaded, err := svc.UploadNote(dbc, userID, planet.ID, "cycle.txt", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("UploadNote: %v", err)
	}

	note, rc, err := svc.DownloadNote(dbc, userID, uploaded.ID)
	if err != nil {
		t.Fatalf("DownloadNote: %v", err)
	}
	defer rc.Close()
	if note.Title != "cycle.txt" {
		t.Fatalf("title: got %q", note.Title)
	}
	got, _ := io.ReadAll(rc)
	if !bytes.Equal(got, payload) {
		t.Fatalf("download: got %q want %q", got, payload)
	}

	if _, _, err := svc.DownloadNote(dbc, uuid.New(), uploaded.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("foreign download: expected ErrNoteNotFound, got %v", err)
	}
}

func TestListNotesFiltersByPlanetAndUser(t *testing.T) {
	userA, userB := uuid.New(), uuid.New()
	planetID := uuid.New()
	noteRepo := &fakeNoteRepo{notes: []*types.Note{
		{ID: uuid.New(), PlanetID: planetID, UserID: userA, Title: "mine"},
		{ID: uuid.New(), PlanetID: planetID, UserID: userB, Title: "theirs"},
		{ID: uuid.New(), PlanetID: uuid.New(), UserID: userA, Title: "other planet"},
	}}
	svc := NewNoteService(nil, testLogger(t), newMemBucket(), noteRepo, &fakePlanetRepo{})

	dbc := dbctx.Context{Ctx: context.Background()}
	notes, err := svc.ListNotes(dbc, planetID, userA)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 1 || notes[0].Title != "mine" {
		t.Fatalf("ListNotes: got %d notes, want exactly the caller's", len(notes))
	}
}
