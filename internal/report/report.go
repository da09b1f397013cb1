// Package report renders the Pareto-style frequency workbook the analysis
// sessions start from: per-label counts with percentage and cumulative
// percentage columns, one sheet per breakdown, plus a top-token sheet.
package report

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/urbandata-br/ruido-cli/internal/model"
)

// DefaultTopTokens bounds the token frequency sheet.
const DefaultTopTokens = 50

// unknownLabel stands in for blank labels so every record lands in a bucket.
const unknownLabel = "não informado"

// Frequency is one row of a Pareto breakdown.
type Frequency struct {
	Label      string
	Count      int
	Percent    float64
	Cumulative float64
}

// Breakdown computes the Pareto rows for one label accessor: counts sorted
// descending, percentage of total, cumulative percentage. Ties sort by label
// so output is stable.
func Breakdown(records []*model.Record, label func(*model.Record) string) []Frequency {
	counts := make(map[string]int)
	for _, rec := range records {
		l := label(rec)
		if l == "" {
			l = unknownLabel
		}
		counts[l]++
	}
	if len(counts) == 0 {
		return nil
	}

	rows := make([]Frequency, 0, len(counts))
	for l, c := range counts {
		rows = append(rows, Frequency{Label: l, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Label < rows[j].Label
	})

	total := float64(len(records))
	var cum float64
	for i := range rows {
		rows[i].Percent = float64(rows[i].Count) / total * 100
		cum += rows[i].Percent
		rows[i].Cumulative = cum
	}
	return rows
}

// TokenCounts returns the most frequent tokens across the corpus, capped at
// limit, ties broken alphabetically.
func TokenCounts(records []*model.Record, limit int) []Frequency {
	counts := make(map[string]int)
	total := 0
	for _, rec := range records {
		for _, tok := range rec.Tokens {
			counts[tok]++
			total++
		}
	}
	rows := make([]Frequency, 0, len(counts))
	for tok, c := range counts {
		rows = append(rows, Frequency{Label: tok, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Label < rows[j].Label
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		if total > 0 {
			rows[i].Percent = float64(rows[i].Count) / float64(total) * 100
		}
	}
	return rows
}

// WriteWorkbook saves the full report to an xlsx file.
func WriteWorkbook(path string, records []*model.Record) error {
	file := xlsx.NewFile()

	sheets := []struct {
		name  string
		label func(*model.Record) string
	}{
		{"Tipo de Fonte", func(r *model.Record) string { return r.SourceType }},
		{"Contexto", func(r *model.Record) string { return r.Context.Label }},
		{"Cluster Textual", func(r *model.Record) string { return r.TextCluster }},
	}
	for _, s := range sheets {
		if err := addParetoSheet(file, s.name, Breakdown(records, s.label)); err != nil {
			return err
		}
	}

	if err := addParetoSheet(file, "Horário", windowBreakdown(records)); err != nil {
		return err
	}

	tokenSheet, err := file.AddSheet("Tokens")
	if err != nil {
		return eris.Wrap(err, "report: add token sheet")
	}
	header := tokenSheet.AddRow()
	header.AddCell().Value = "Token"
	header.AddCell().Value = "Ocorrências"
	header.AddCell().Value = "% Frequência"
	for _, row := range TokenCounts(records, DefaultTopTokens) {
		r := tokenSheet.AddRow()
		r.AddCell().Value = row.Label
		r.AddCell().SetInt(row.Count)
		r.AddCell().SetFloat(row.Percent)
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}

// windowBreakdown counts time windows; a record contributes once per window
// it carries, so the column is a window frequency, not a record partition.
func windowBreakdown(records []*model.Record) []Frequency {
	counts := make(map[string]int)
	total := 0
	for _, rec := range records {
		for _, w := range rec.TimeWindows {
			counts[w]++
			total++
		}
	}
	rows := make([]Frequency, 0, len(counts))
	for l, c := range counts {
		rows = append(rows, Frequency{Label: l, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Label < rows[j].Label
	})
	var cum float64
	for i := range rows {
		if total > 0 {
			rows[i].Percent = float64(rows[i].Count) / float64(total) * 100
		}
		cum += rows[i].Percent
		rows[i].Cumulative = cum
	}
	return rows
}

func addParetoSheet(file *xlsx.File, name string, rows []Frequency) error {
	sheet, err := file.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "report: add sheet %s", name)
	}
	header := sheet.AddRow()
	header.AddCell().Value = name
	header.AddCell().Value = "Denúncias"
	header.AddCell().Value = "% Frequência"
	header.AddCell().Value = "% Acumulado"
	for _, row := range rows {
		r := sheet.AddRow()
		r.AddCell().Value = row.Label
		r.AddCell().SetInt(row.Count)
		r.AddCell().SetFloat(row.Percent)
		r.AddCell().SetFloat(row.Cumulative)
	}
	return nil
}
