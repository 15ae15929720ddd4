package study

import "strings"

// The model context window allows ~131k tokens; 120k tokens at roughly four
// characters per token leaves a safe margin.
const (
	corpusMaxTokens = 120_000
	corpusMaxChars  = corpusMaxTokens * 4
)

// BuildCorpus joins note bodies into one prompt-ready string. The result is a
// left-anchored prefix capped at corpusMaxChars characters; truncation is
// silent. The cap counts runes, not bytes, so multibyte text keeps its full
// budget and the cut never splits a character.
func BuildCorpus(bodies []string) string {
	corpus := strings.Join(bodies, "\n\n")
	if len(corpus) <= corpusMaxChars {
		return corpus
	}
	n := 0
	for i := range corpus {
		if n == corpusMaxChars {
			return corpus[:i]
		}
		n++
	}
	return corpus
}
