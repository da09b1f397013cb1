package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("22:15:00 14-01-2023")
	require.NoError(t, err)
	assert.Equal(t, 2023, ts.Year())
	assert.Equal(t, 1, int(ts.Month()))
	assert.Equal(t, 14, ts.Day())
	assert.Equal(t, 22, ts.Hour())

	_, err = ParseTimestamp("2023-01-14T22:15:00Z")
	assert.Error(t, err)
	_, err = ParseTimestamp("")
	assert.Error(t, err)
}

func TestTokenSet(t *testing.T) {
	rec := &Record{Tokens: []string{"som", "alto", "som"}}
	set := rec.TokenSet()
	assert.Len(t, set, 2)
	_, ok := set["som"]
	assert.True(t, ok)

	assert.Empty(t, (&Record{}).TokenSet())
}
