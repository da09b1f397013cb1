package lexicon

import (
	"bufio"
	"bytes"
	_ "embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

//go:embed data/stopwords.txt
var defaultStopwords []byte

// Stopwords is a case-folded membership set of terms to drop during
// tokenization.
type Stopwords struct {
	words map[string]struct{}
}

// LoadStopwords builds the stopword set from the embedded base list plus an
// optional operator file whose terms extend (never replace) the base list.
func LoadStopwords(extraPath string) (*Stopwords, error) {
	sw := &Stopwords{words: make(map[string]struct{})}
	if err := sw.addFrom(bytes.NewReader(defaultStopwords)); err != nil {
		return nil, eris.Wrap(err, "lexicon: parse embedded stopwords")
	}
	if extraPath != "" {
		f, err := os.Open(extraPath)
		if err != nil {
			return nil, eris.Wrapf(err, "lexicon: open stopword file %s", extraPath)
		}
		defer f.Close()
		if err := sw.addFrom(f); err != nil {
			return nil, eris.Wrapf(err, "lexicon: parse stopword file %s", extraPath)
		}
	}
	return sw, nil
}

func (s *Stopwords) addFrom(r interface{ Read([]byte) (int, error) }) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.words[strings.ToLower(line)] = struct{}{}
	}
	return scanner.Err()
}

// Contains reports whether term is a stopword. Callers pass already-folded
// terms; the set itself is stored folded.
func (s *Stopwords) Contains(term string) bool {
	_, ok := s.words[term]
	return ok
}

// Len returns the number of stopwords loaded.
func (s *Stopwords) Len() int { return len(s.words) }
