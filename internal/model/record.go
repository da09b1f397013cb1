// Package model defines the complaint record and the derived classification
// fields the pipeline writes back onto it.
package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// TimestampLayout is the day-first inclusion timestamp format used by the
// upstream export ("HH:MM:SS DD-MM-YYYY").
const TimestampLayout = "15:04:05 02-01-2006"

// SourceTypeUndefined is the sentinel written when the modality matcher
// produced no match. Labels are never null so downstream grouping stays total.
const SourceTypeUndefined = "indefinido"

// GeoJSON property names carried over from the upstream export schema.
const (
	PropProtocol      = "Protocolo"
	PropDescription   = "Descrição"
	PropIncludedAt    = "DataInclusao_BR"
	PropTokens        = "descricao_tokens"
	PropSourceType    = "Tipo de Fonte Modalidade"
	PropContext       = "fonte_contexto_sugerido"
	PropContextScore  = "fonte_contexto_score"
	PropContextTerms  = "fonte_contexto_termos"
	PropModality      = "fonte_modalidade"
	PropModalityScore = "fonte_modalidade_score"
	PropModalityTerms = "fonte_modalidade_termos"
	PropTimeWindows   = "fonte_horario"
	PropTextCluster   = "fonte_cluster"
)

// MatchResult is the outcome of matching a token sequence against one
// category dictionary. Score is the count of distinct matched keywords and
// Terms is the sorted list of those keywords, kept for auditability.
type MatchResult struct {
	Label string
	Score int
	Terms []string
}

// Record is one noise complaint plus the fields derived by the pipeline.
// Derived fields are recomputed from Tokens on every classify run, so
// re-running the pipeline is idempotent.
type Record struct {
	Protocol    string
	Description string
	IncludedAt  time.Time
	HasTime     bool

	Longitude float64
	Latitude  float64
	// Geolocated is false when the source feature had a missing or malformed
	// geometry. Such records still flow through the text pipeline but are
	// excluded from spatial outputs.
	Geolocated bool

	Tokens []string

	SourceType  string
	Context     MatchResult
	Modality    MatchResult
	TimeWindows []string
	TextCluster string

	// Extra preserves upstream properties this pipeline does not interpret,
	// so a read-transform-write cycle never loses data.
	Extra map[string]any
}

// ParseTimestamp parses the upstream inclusion timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "model: parse timestamp %q", s)
	}
	return t, nil
}

// TokenSet returns the deduplicated token set of the record. Tokens are
// already normalized by the tokenizer, so no further folding happens here.
func (r *Record) TokenSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.Tokens))
	for _, tok := range r.Tokens {
		set[tok] = struct{}{}
	}
	return set
}
