package study

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	types "github.com/astralnotes/astral-backend/internal/domain"
	"github.com/astralnotes/astral-backend/internal/platform/envutil"
	"github.com/astralnotes/astral-backend/internal/platform/logger"
)

// maxNoteBodyBytes bounds a single fetched note body. Anything larger than the
// whole corpus cap would be truncated later anyway.
const maxNoteBodyBytes = int64(corpusMaxChars) + 1

// ContentFetcher resolves the textual body of a note, preferring the stored
// blob and degrading to inline fields. Resolution never fails: a broken fetch
// yields a worse-but-present substitute, not an error.
type ContentFetcher struct {
	log        *logger.Logger
	httpClient *http.Client
}

func NewContentFetcher(log *logger.Logger) *ContentFetcher {
	return &ContentFetcher{
		log:        log.With("module", "ContentFetcher"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Resolve returns the best available text for one note. Priority: fetched
// blob body, then Content, Text, Body, and finally Title (always non-empty,
// since notes cannot be created without a filename).
func (f *ContentFetcher) Resolve(ctx context.Context, note *types.Note) string {
	if note == nil {
		return ""
	}
	if note.FileURL != "" {
		if body, ok := f.fetch(ctx, note.FileURL); ok {
			return body
		}
	}
	switch {
	case note.Content != "":
		return note.Content
	case note.Text != "":
		return note.Text
	case note.Body != "":
		return note.Body
	default:
		return note.Title
	}
}

func (f *ContentFetcher) fetch(ctx context.Context, fileURL string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		f.log.Debug("building note fetch request failed", "url", fileURL, "error", err)
		return "", false
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.log.Debug("note fetch failed", "url", fileURL, "error", err)
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		f.log.Debug("note fetch returned non-200", "url", fileURL, "status", resp.StatusCode)
		return "", false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxNoteBodyBytes))
	if err != nil {
		f.log.Debug("reading note body failed", "url", fileURL, "error", err)
		return "", false
	}
	return string(body), true
}

// ResolveAll fans out over the notes with bounded concurrency and returns the
// bodies in the original note order. Individual fetch failures degrade inside
// Resolve, so the batch as a whole cannot fail.
func (f *ContentFetcher) ResolveAll(ctx context.Context, notes []*types.Note) []string {
	bodies := make([]string, len(notes))
	if len(notes) == 0 {
		return bodies
	}

	maxConc := envutil.Int("NOTE_FETCH_CONCURRENCY", 4)
	if maxConc < 1 {
		maxConc = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConc)
	for i, note := range notes {
		i, note := i, note
		g.Go(func() error {
			bodies[i] = f.Resolve(gctx, note)
			return nil
		})
	}
	_ = g.Wait()
	return bodies
}
