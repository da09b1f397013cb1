package lexicon

import (
	"bufio"
	"bytes"
	_ "embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

//go:embed data/lemmas.tsv
var defaultLemmas []byte

// Lemmatizer maps a surface form to its lemma. It is table-driven: an exact
// lookup first, then gerund suffix rules (-ando/-endo/-indo back to the
// infinitive), otherwise the surface form is its own lemma. Nouns are left
// untouched on purpose — the category dictionaries carry both singular and
// plural forms, so collapsing plurals would change match behavior.
type Lemmatizer struct {
	table map[string]string
}

// LoadLemmatizer builds the lemma table from the embedded defaults plus an
// optional operator TSV whose entries take precedence.
func LoadLemmatizer(extraPath string) (*Lemmatizer, error) {
	lm := &Lemmatizer{table: make(map[string]string)}
	if err := lm.addFrom(bytes.NewReader(defaultLemmas)); err != nil {
		return nil, eris.Wrap(err, "lexicon: parse embedded lemma table")
	}
	if extraPath != "" {
		f, err := os.Open(extraPath)
		if err != nil {
			return nil, eris.Wrapf(err, "lexicon: open lemma file %s", extraPath)
		}
		defer f.Close()
		if err := lm.addFrom(f); err != nil {
			return nil, eris.Wrapf(err, "lexicon: parse lemma file %s", extraPath)
		}
	}
	return lm, nil
}

func (l *Lemmatizer) addFrom(r interface{ Read([]byte) (int, error) }) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return eris.Errorf("lexicon: malformed lemma line %q", line)
		}
		surface := strings.ToLower(strings.TrimSpace(parts[0]))
		lemma := strings.ToLower(strings.TrimSpace(parts[1]))
		if surface == "" || lemma == "" {
			return eris.Errorf("lexicon: malformed lemma line %q", line)
		}
		l.table[surface] = lemma
	}
	return scanner.Err()
}

// gerund suffix -> infinitive ending, by conjugation class.
var gerundSuffixes = []struct{ suffix, ending string }{
	{"ando", "ar"},
	{"endo", "er"},
	{"indo", "ir"},
}

// Lemma returns the lemma for an already-folded surface form.
func (l *Lemmatizer) Lemma(surface string) string {
	if lemma, ok := l.table[surface]; ok {
		return lemma
	}
	for _, g := range gerundSuffixes {
		// Require a stem of at least three runes so short words like "lindo"
		// keep their surface form.
		if strings.HasSuffix(surface, g.suffix) && len([]rune(surface))-len([]rune(g.suffix)) >= 3 {
			return strings.TrimSuffix(surface, g.suffix) + g.ending
		}
	}
	return surface
}

// Len returns the number of explicit table entries.
func (l *Lemmatizer) Len() int { return len(l.table) }
