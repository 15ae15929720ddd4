package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/astralnotes/astral-backend/internal/data/repos"
	"github.com/astralnotes/astral-backend/internal/modules/study"
	"github.com/astralnotes/astral-backend/internal/platform/apierr"
	"github.com/astralnotes/astral-backend/internal/platform/dbctx"
	"github.com/astralnotes/astral-backend/internal/platform/groq"
	"github.com/astralnotes/astral-backend/internal/platform/logger"
)

// StudyService drives the three AI flows. Each call is one pass: load the
// caller's notes for the planet, resolve their bodies, assemble the prompt,
// and dispatch it to the model.
type StudyService interface {
	AnswerQuestion(dbc dbctx.Context, userID, planetID uuid.UUID, question string) (string, error)
	GenerateQuiz(dbc dbctx.Context, userID, planetID uuid.UUID, topic string) (string, error)
	Summarize(dbc dbctx.Context, userID, planetID uuid.UUID, topic string) (string, error)
}

type studyService struct {
	db         *gorm.DB
	log        *logger.Logger
	noteRepo   repos.NoteRepo
	planetRepo repos.PlanetRepo
	fetcher    *study.ContentFetcher
	llm        groq.Client
}

func NewStudyService(
	db *gorm.DB,
	baseLog *logger.Logger,
	noteRepo repos.NoteRepo,
	planetRepo repos.PlanetRepo,
	fetcher *study.ContentFetcher,
	llm groq.Client,
) StudyService {
	return &studyService{
		db:         db,
		log:        baseLog.With("service", "StudyService"),
		noteRepo:   noteRepo,
		planetRepo: planetRepo,
		fetcher:    fetcher,
		llm:        llm,
	}
}

func (ss *studyService) AnswerQuestion(dbc dbctx.Context, userID, planetID uuid.UUID, question string) (string, error) {
	corpus, err := ss.corpusForPlanet(dbc, userID, planetID)
	if err != nil {
		return "", err
	}
	return ss.complete(dbc.Ctx, study.TutorPrompt(corpus, question))
}

func (ss *studyService) GenerateQuiz(dbc dbctx.Context, userID, planetID uuid.UUID, topic string) (string, error) {
	corpus, err := ss.corpusForPlanet(dbc, userID, planetID)
	if err != nil {
		return "", err
	}
	return ss.complete(dbc.Ctx, study.QuizPrompt(corpus, topic))
}

func (ss *studyService) Summarize(dbc dbctx.Context, userID, planetID uuid.UUID, topic string) (string, error) {
	// Topic is accepted for parity with quiz generation but the summary prompt
	// summarizes the whole corpus.
	_ = topic
	corpus, err := ss.corpusForPlanet(dbc, userID, planetID)
	if err != nil {
		return "", err
	}
	return ss.complete(dbc.Ctx, study.SummaryPrompt(corpus))
}

func (ss *studyService) corpusForPlanet(dbc dbctx.Context, userID, planetID uuid.UUID) (string, error) {
	planet, err := ss.planetRepo.GetOwned(dbc, planetID, userID)
	if err != nil {
		return "", fmt.Errorf("check planet ownership: %w", err)
	}
	if planet == nil {
		return "", apierr.New(http.StatusNotFound, "planet_not_found", ErrPlanetNotFound)
	}

	notes, err := ss.noteRepo.GetByPlanetAndUser(dbc, planetID, userID)
	if err != nil {
		return "", fmt.Errorf("load notes: %w", err)
	}
	bodies := ss.fetcher.ResolveAll(dbc.Ctx, notes)
	return study.BuildCorpus(bodies), nil
}

func (ss *studyService) complete(ctx context.Context, prompt string) (string, error) {
	answer, err := ss.llm.Complete(ctx, prompt)
	if err != nil {
		// The raw upstream error stays in the logs; callers get a stable code
		// with a message safe to put on the wire.
		ss.log.Error("chat completion failed", "error", err)
		return "", apierr.New(http.StatusBadGateway, "llm_failed", errors.New("model call failed"))
	}
	return answer, nil
}
