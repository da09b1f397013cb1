package geofile

import (
	"fmt"

	"github.com/urbandata-br/ruido-cli/internal/model"
)

// managed lists the properties this pipeline owns. They are rewritten on
// every save; everything else round-trips untouched through Record.Extra.
var managed = map[string]struct{}{
	model.PropTokens:        {},
	model.PropSourceType:    {},
	model.PropContext:       {},
	model.PropContextScore:  {},
	model.PropContextTerms:  {},
	model.PropModality:      {},
	model.PropModalityScore: {},
	model.PropModalityTerms: {},
	model.PropTimeWindows:   {},
	model.PropTextCluster:   {},
}

func fromProperties(props map[string]any) *model.Record {
	rec := &model.Record{Extra: make(map[string]any)}
	for k, v := range props {
		if _, ok := managed[k]; !ok {
			rec.Extra[k] = v
		}
	}

	rec.Protocol = asString(props[model.PropProtocol])
	rec.Description = asString(props[model.PropDescription])
	if ts := asString(props[model.PropIncludedAt]); ts != "" {
		if t, err := model.ParseTimestamp(ts); err == nil {
			rec.IncludedAt = t
			rec.HasTime = true
		}
	}

	// Derived fields may already exist when re-processing a classified file.
	if toks, ok := props[model.PropTokens]; ok {
		rec.Tokens = asStrings(toks)
	}
	rec.SourceType = asString(props[model.PropSourceType])
	rec.Context = model.MatchResult{
		Label: asString(props[model.PropContext]),
		Score: asInt(props[model.PropContextScore]),
		Terms: asStrings(props[model.PropContextTerms]),
	}
	rec.Modality = model.MatchResult{
		Label: asString(props[model.PropModality]),
		Score: asInt(props[model.PropModalityScore]),
		Terms: asStrings(props[model.PropModalityTerms]),
	}
	rec.TimeWindows = asStrings(props[model.PropTimeWindows])
	rec.TextCluster = asString(props[model.PropTextCluster])
	return rec
}

func toProperties(rec *model.Record) map[string]any {
	props := make(map[string]any, len(rec.Extra)+len(managed))
	for k, v := range rec.Extra {
		props[k] = v
	}

	if rec.Tokens != nil {
		props[model.PropTokens] = orEmpty(rec.Tokens)
	}
	if rec.SourceType != "" {
		props[model.PropSourceType] = rec.SourceType
		props[model.PropContext] = rec.Context.Label
		props[model.PropContextScore] = rec.Context.Score
		props[model.PropContextTerms] = orEmpty(rec.Context.Terms)
		props[model.PropModality] = rec.Modality.Label
		props[model.PropModalityScore] = rec.Modality.Score
		props[model.PropModalityTerms] = orEmpty(rec.Modality.Terms)
		props[model.PropTimeWindows] = orEmpty(rec.TimeWindows)
	}
	if rec.TextCluster != "" {
		props[model.PropTextCluster] = rec.TextCluster
	}
	return props
}

// orEmpty keeps JSON arrays as [] rather than null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func asStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
