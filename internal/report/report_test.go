package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/urbandata-br/ruido-cli/internal/model"
)

func sampleRecords() []*model.Record {
	return []*model.Record{
		{SourceType: "musica", Tokens: []string{"som", "alto"}, TimeWindows: []string{"noite"}},
		{SourceType: "musica", Tokens: []string{"som", "festa"}, TimeWindows: []string{"noite", "madrugada"}},
		{SourceType: "obra", Tokens: []string{"obra"}, TimeWindows: []string{"manha"}},
		{SourceType: ""},
	}
}

func TestBreakdown_ParetoColumns(t *testing.T) {
	rows := Breakdown(sampleRecords(), func(r *model.Record) string { return r.SourceType })
	require.Len(t, rows, 3)

	assert.Equal(t, "musica", rows[0].Label)
	assert.Equal(t, 2, rows[0].Count)
	assert.InDelta(t, 50.0, rows[0].Percent, 1e-9)
	assert.InDelta(t, 50.0, rows[0].Cumulative, 1e-9)

	// Blank labels bucket under the placeholder instead of disappearing.
	labels := []string{rows[1].Label, rows[2].Label}
	assert.Contains(t, labels, "obra")
	assert.Contains(t, labels, "não informado")

	assert.InDelta(t, 100.0, rows[2].Cumulative, 1e-9)
}

func TestBreakdown_TiesSortByLabel(t *testing.T) {
	records := []*model.Record{
		{SourceType: "zb"}, {SourceType: "aa"}, {SourceType: "aa"}, {SourceType: "zb"},
	}
	rows := Breakdown(records, func(r *model.Record) string { return r.SourceType })
	require.Len(t, rows, 2)
	assert.Equal(t, "aa", rows[0].Label)
	assert.Equal(t, "zb", rows[1].Label)
}

func TestBreakdown_Empty(t *testing.T) {
	assert.Nil(t, Breakdown(nil, func(r *model.Record) string { return r.SourceType }))
}

func TestTokenCounts_LimitAndOrder(t *testing.T) {
	rows := TokenCounts(sampleRecords(), 2)
	require.Len(t, rows, 2)
	assert.Equal(t, "som", rows[0].Label)
	assert.Equal(t, 2, rows[0].Count)
	// 5 token occurrences total.
	assert.InDelta(t, 40.0, rows[0].Percent, 1e-9)
	// Count 1 ties break alphabetically.
	assert.Equal(t, "alto", rows[1].Label)
}

func TestWindowBreakdown_CountsPerWindow(t *testing.T) {
	rows := windowBreakdown(sampleRecords())
	require.Len(t, rows, 3)
	assert.Equal(t, "noite", rows[0].Label)
	assert.Equal(t, 2, rows[0].Count)
	// 4 window occurrences across 3 records: frequencies sum past the record
	// count on purpose.
	assert.InDelta(t, 50.0, rows[0].Percent, 1e-9)
}

func TestWriteWorkbook_SheetLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(path, sampleRecords()))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	names := make([]string, 0, len(file.Sheets))
	for _, s := range file.Sheets {
		names = append(names, s.Name)
	}
	assert.Equal(t,
		[]string{"Tipo de Fonte", "Contexto", "Cluster Textual", "Horário", "Tokens"},
		names,
	)

	source := file.Sheet["Tipo de Fonte"]
	require.NotNil(t, source)
	require.GreaterOrEqual(t, len(source.Rows), 4)
	assert.Equal(t, "Tipo de Fonte", source.Rows[0].Cells[0].Value)
	assert.Equal(t, "musica", source.Rows[1].Cells[0].Value)
	count, err := source.Rows[1].Cells[1].Int()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	tokens := file.Sheet["Tokens"]
	require.NotNil(t, tokens)
	assert.Equal(t, "Token", tokens.Rows[0].Cells[0].Value)
	assert.Equal(t, "som", tokens.Rows[1].Cells[0].Value)
}
