// Package tokenize normalizes free-text complaint descriptions into the
// lemmatized, stopword-filtered token sequences the rest of the pipeline
// consumes. Tokenization is a pure function of the text and the loaded
// language resources; it keeps duplicates and preserves appearance order.
package tokenize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/urbandata-br/ruido-cli/internal/lexicon"
)

var (
	urlRegex = regexp.MustCompile(`(?i)https?://\S+|www\.\S+`)
	// At least two letters, accented Portuguese letters included.
	alphaRegex = regexp.MustCompile(`(?i)[a-zà-ú]{2,}`)
)

// irForms are conjugations of "ir" that lemma tables commonly miss; they are
// collapsed onto the canonical lemma.
var irForms = map[string]struct{}{
	"vou": {}, "vais": {}, "vai": {}, "vamos": {}, "ides": {}, "vão": {},
}

// Tokenizer holds the language resources. Safe for concurrent use.
type Tokenizer struct {
	stopwords  *lexicon.Stopwords
	lemmatizer *lexicon.Lemmatizer
}

// New builds a Tokenizer from loaded resources.
func New(stopwords *lexicon.Stopwords, lemmatizer *lexicon.Lemmatizer) *Tokenizer {
	return &Tokenizer{stopwords: stopwords, lemmatizer: lemmatizer}
}

// Tokenize converts a raw description into normalized lemma tokens. An empty
// or whitespace-only description yields an empty sequence, not an error.
func (t *Tokenizer) Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// URLs are stripped before segmentation so their fragments never surface
	// as tokens.
	cleaned := urlRegex.ReplaceAllString(text, " ")
	cleaned = cases.Lower(language.BrazilianPortuguese).String(cleaned)

	tokens := make([]string, 0, 16)
	for _, raw := range segment(cleaned) {
		if raw == "" || t.stopwords.Contains(raw) {
			continue
		}
		if isPunct(raw) || likeNum(raw) || containsDigit(raw) {
			continue
		}
		if !alphaRegex.MatchString(raw) {
			continue
		}

		lemma := t.lemmatizer.Lemma(raw)
		if _, ok := irForms[lemma]; ok {
			lemma = "ir"
		}
		if t.stopwords.Contains(lemma) {
			continue
		}
		tokens = append(tokens, lemma)
	}
	return tokens
}

// segment splits folded text into candidate tokens: whitespace-delimited
// fields with leading and trailing punctuation trimmed. Inner punctuation is
// kept so hyphenated terms like "bate-papo" survive as single tokens.
func segment(text string) []string {
	fields := strings.FieldsFunc(text, unicode.IsSpace)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		out = append(out, f)
	}
	return out
}

func isPunct(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return len(s) > 0
}

func likeNum(s string) bool {
	trimmed := strings.Trim(s, "+-")
	if trimmed == "" {
		return false
	}
	digits := 0
	for _, r := range trimmed {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == ',':
		default:
			return false
		}
	}
	return digits > 0
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
