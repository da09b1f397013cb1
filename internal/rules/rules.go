// Package rules evaluates operator-defined boolean rules against classified
// records. The rule list is owned by the caller and passed in explicitly; the
// engine itself is a pure function of (record, rules).
package rules

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/urbandata-br/ruido-cli/internal/model"
)

// Rule is one named constraint bundle. Each non-empty constraint set must be
// satisfied for the rule to match:
//
//   - Contexts / Modalities: the record's label must be one of them;
//   - Tokens: the record's token set must contain ALL of them (full subset);
//   - Windows: at least one must be among the record's time windows
//     (intersection).
//
// A rule whose constraint sets are all empty matches nothing. Matching every
// record would be the vacuous reading, but an accidentally blank rule
// swallowing the whole dataset is a footgun, so emptiness is rejected
// instead.
type Rule struct {
	Name       string   `yaml:"name"`
	Contexts   []string `yaml:"contexts"`
	Modalities []string `yaml:"modalities"`
	Tokens     []string `yaml:"tokens"`
	Windows    []string `yaml:"windows"`
}

// Empty reports whether every constraint set of the rule is empty.
func (r *Rule) Empty() bool {
	return len(r.Contexts) == 0 && len(r.Modalities) == 0 &&
		len(r.Tokens) == 0 && len(r.Windows) == 0
}

// Matches evaluates the rule against one classified record.
func (r *Rule) Matches(rec *model.Record) bool {
	if r.Empty() {
		return false
	}
	if len(r.Contexts) > 0 && !contains(r.Contexts, rec.Context.Label) {
		return false
	}
	if len(r.Modalities) > 0 && !contains(r.Modalities, rec.Modality.Label) {
		return false
	}
	if len(r.Tokens) > 0 {
		tokenSet := rec.TokenSet()
		for _, tok := range r.Tokens {
			if _, ok := tokenSet[tok]; !ok {
				return false
			}
		}
	}
	if len(r.Windows) > 0 {
		if !intersects(r.Windows, rec.TimeWindows) {
			return false
		}
	}
	return true
}

// Evaluate returns the names of every rule the record satisfies, in rule
// definition order. Rules are independent: each is evaluated in full, and a
// record may match any number of them.
func Evaluate(rec *model.Record, rules []Rule) []string {
	var names []string
	for i := range rules {
		if rules[i].Name == "" {
			continue
		}
		if rules[i].Matches(rec) {
			names = append(names, rules[i].Name)
		}
	}
	return names
}

// Load reads a rule list from a YAML file.
func Load(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "rules: read %s", path)
	}
	var rs []Rule
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, eris.Wrapf(err, "rules: parse %s", path)
	}
	for i := range rs {
		if rs[i].Name == "" {
			return nil, eris.Errorf("rules: rule %d has no name", i)
		}
	}
	return rs, nil
}

func contains(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}
