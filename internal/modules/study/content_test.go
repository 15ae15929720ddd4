package study

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	types "github.com/astralnotes/astral-backend/internal/domain"
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

func TestResolvePrefersFetchedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "fetched body")
	}))
	defer srv.Close()

	f := NewContentFetcher(testLogger(t))
	note := &types.Note{
		Title:   "notes.txt",
		FileURL: srv.URL + "/n.txt",
		Content: "inline content",
	}
	if got := f.Resolve(context.Background(), note); got != "fetched body" {
		t.Fatalf("Resolve: got %q", got)
	}
}

func TestResolveFallbackChain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewContentFetcher(testLogger(t))

	cases := []struct {
		name string
		note *types.Note
		want string
	}{
		{"content wins", &types.Note{FileURL: srv.URL, Content: "c", Text: "t", Body: "b", Title: "ti"}, "c"},
		{"then text", &types.Note{FileURL: srv.URL, Text: "t", Body: "b", Title: "ti"}, "t"},
		{"then body", &types.Note{FileURL: srv.URL, Body: "b", Title: "ti"}, "b"},
		{"title last", &types.Note{FileURL: srv.URL, Title: "ti"}, "ti"},
		{"no url at all", &types.Note{Title: "ti"}, "ti"},
	}
	for _, tc := range cases {
		if got := f.Resolve(context.Background(), tc.note); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestResolveUnreachableURLFallsBack(t *testing.T) {
	f := NewContentFetcher(testLogger(t))
	note := &types.Note{Title: "ti", FileURL: "http://127.0.0.1:1/nope"}
	if got := f.Resolve(context.Background(), note); got != "ti" {
		t.Fatalf("Resolve: got %q", got)
	}
}

func TestResolveAllPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "body-%s", r.URL.Query().Get("i"))
	}))
	defer srv.Close()

	f := NewContentFetcher(testLogger(t))
	const n = 20
	notes := make([]*types.Note, 0, n)
	for i := 0; i < n; i++ {
		notes = append(notes, &types.Note{
			ID:      uuid.New(),
			Title:   fmt.Sprintf("title-%d", i),
			FileURL: fmt.Sprintf("%s/n?i=%d", srv.URL, i),
		})
	}

	bodies := f.ResolveAll(context.Background(), notes)
	if len(bodies) != n {
		t.Fatalf("len(bodies)=%d want %d", len(bodies), n)
	}
	for i, b := range bodies {
		want := fmt.Sprintf("body-%d", i)
		if b != want {
			t.Fatalf("order broken at %d: got %q want %q", i, b, want)
		}
	}
}

func TestResolveAllEmpty(t *testing.T) {
	f := NewContentFetcher(testLogger(t))
	if got := f.ResolveAll(context.Background(), nil); len(got) != 0 {
		t.Fatalf("ResolveAll(nil): got %d bodies", len(got))
	}
}
