// Package lexicon loads the language resources the classification pipeline
// depends on: stopwords, the lemma table, and the category dictionaries.
// Defaults are embedded so the binary works out of the box; every resource can
// be replaced by an operator-supplied file without a rebuild. A configured
// path that cannot be read is a startup error, never a per-record one.
package lexicon

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed data/context.yaml
var defaultContextYAML []byte

//go:embed data/modality.yaml
var defaultModalityYAML []byte

//go:embed data/time.yaml
var defaultTimeYAML []byte

// Category is one labeled keyword set inside a dictionary.
type Category struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`

	keywordSet map[string]struct{}
}

// Contains reports whether the category keyword set holds the given token.
func (c *Category) Contains(token string) bool {
	_, ok := c.keywordSet[token]
	return ok
}

// Dictionary is an ordered list of categories. Order is significant: the
// keyword matcher breaks score ties in favor of the earliest category, so a
// dictionary loaded from the same file always tie-breaks the same way.
type Dictionary struct {
	Name       string
	Categories []Category
}

// Dictionaries bundles the three tables the rule classifier needs.
type Dictionaries struct {
	Context  *Dictionary
	Modality *Dictionary
	Time     *Dictionary
}

// DictionaryPaths holds optional operator overrides. Empty fields fall back
// to the embedded defaults.
type DictionaryPaths struct {
	Context  string
	Modality string
	Time     string
}

// LoadDictionaries loads the context, modality and time-window dictionaries.
func LoadDictionaries(paths DictionaryPaths) (*Dictionaries, error) {
	ctxDict, err := loadDictionary("context", paths.Context, defaultContextYAML)
	if err != nil {
		return nil, err
	}
	modDict, err := loadDictionary("modality", paths.Modality, defaultModalityYAML)
	if err != nil {
		return nil, err
	}
	timeDict, err := loadDictionary("time", paths.Time, defaultTimeYAML)
	if err != nil {
		return nil, err
	}
	return &Dictionaries{Context: ctxDict, Modality: modDict, Time: timeDict}, nil
}

func loadDictionary(name, path string, fallback []byte) (*Dictionary, error) {
	raw := fallback
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "lexicon: read %s dictionary %s", name, path)
		}
		raw = data
	}
	return ParseDictionary(name, raw)
}

// ParseDictionary decodes a YAML category list into a Dictionary.
func ParseDictionary(name string, raw []byte) (*Dictionary, error) {
	var cats []Category
	if err := yaml.Unmarshal(raw, &cats); err != nil {
		return nil, eris.Wrapf(err, "lexicon: parse %s dictionary", name)
	}
	if len(cats) == 0 {
		return nil, eris.Errorf("lexicon: %s dictionary has no categories", name)
	}
	seen := make(map[string]struct{}, len(cats))
	for i := range cats {
		c := &cats[i]
		if c.Label == "" {
			return nil, eris.Errorf("lexicon: %s dictionary category %d has no label", name, i)
		}
		if _, dup := seen[c.Label]; dup {
			return nil, eris.Errorf("lexicon: %s dictionary has duplicate label %q", name, c.Label)
		}
		seen[c.Label] = struct{}{}
		c.keywordSet = make(map[string]struct{}, len(c.Keywords))
		for _, kw := range c.Keywords {
			c.keywordSet[kw] = struct{}{}
		}
	}
	return &Dictionary{Name: name, Categories: cats}, nil
}

// Labels returns the category labels in dictionary order.
func (d *Dictionary) Labels() []string {
	labels := make([]string, len(d.Categories))
	for i, c := range d.Categories {
		labels[i] = c.Label
	}
	return labels
}
