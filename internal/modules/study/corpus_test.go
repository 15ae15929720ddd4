package study

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildCorpusJoinsWithBlankLine(t *testing.T) {
	got := BuildCorpus([]string{"alpha", "beta", "gamma"})
	if got != "alpha\n\nbeta\n\ngamma" {
		t.Fatalf("BuildCorpus: got %q", got)
	}
}

func TestBuildCorpusEmpty(t *testing.T) {
	if got := BuildCorpus(nil); got != "" {
		t.Fatalf("BuildCorpus(nil): got %q", got)
	}
}

func TestBuildCorpusTruncationBoundary(t *testing.T) {
	// One char over the cap must come back exactly at the cap.
	over := strings.Repeat("x", corpusMaxChars+1)
	got := BuildCorpus([]string{over})
	if len(got) != corpusMaxChars {
		t.Fatalf("truncated length: got %d want %d", len(got), corpusMaxChars)
	}

	at := strings.Repeat("y", corpusMaxChars)
	if got := BuildCorpus([]string{at}); len(got) != corpusMaxChars {
		t.Fatalf("exact-cap corpus must be untouched: got %d", len(got))
	}
}

func TestBuildCorpusTruncationCountsRunes(t *testing.T) {
	// The cap is characters, not bytes: a two-byte rune corpus one char over
	// the cap keeps exactly corpusMaxChars characters.
	over := strings.Repeat("é", corpusMaxChars+1)
	got := BuildCorpus([]string{over})
	if n := utf8.RuneCountInString(got); n != corpusMaxChars {
		t.Fatalf("truncated rune count: got %d want %d", n, corpusMaxChars)
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncation split a rune")
	}

	// Mixed widths: the cut must land on a rune boundary, never mid-sequence.
	mixed := strings.Repeat("aé世", corpusMaxChars) // 1-, 2-, 3-byte runes
	got = BuildCorpus([]string{mixed})
	if n := utf8.RuneCountInString(got); n != corpusMaxChars {
		t.Fatalf("mixed-width rune count: got %d want %d", n, corpusMaxChars)
	}
	if !utf8.ValidString(got) {
		t.Fatal("mixed-width truncation split a rune")
	}
}

func TestBuildCorpusTruncationCountsSeparator(t *testing.T) {
	a := strings.Repeat("a", corpusMaxChars-1)
	got := BuildCorpus([]string{a, "bb"})
	if len(got) != corpusMaxChars {
		t.Fatalf("got %d want %d", len(got), corpusMaxChars)
	}
	if !strings.HasPrefix(got, a) {
		t.Fatalf("truncation must be left-anchored")
	}
}
