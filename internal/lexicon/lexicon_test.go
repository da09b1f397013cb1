package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDictionaries_EmbeddedDefaults(t *testing.T) {
	dicts, err := LoadDictionaries(DictionaryPaths{})
	require.NoError(t, err)

	assert.Equal(t, "bar_evento", dicts.Context.Categories[0].Label)
	assert.Equal(t, "musica", dicts.Modality.Categories[0].Label)
	assert.Equal(t,
		[]string{"manha", "tarde", "noite", "madrugada", "fim_de_semana"},
		dicts.Time.Labels(),
	)

	assert.True(t, dicts.Context.Categories[0].Contains("festa"))
	assert.True(t, dicts.Modality.Categories[0].Contains("som"))
	assert.False(t, dicts.Modality.Categories[0].Contains("obra"))
}

func TestLoadDictionaries_MissingFileIsFatal(t *testing.T) {
	_, err := LoadDictionaries(DictionaryPaths{Context: "/nonexistent/context.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context dictionary")
}

func TestParseDictionary_PreservesOrder(t *testing.T) {
	raw := []byte(`
- label: primeiro
  keywords: [um, dois]
- label: segundo
  keywords: [tres]
`)
	dict, err := ParseDictionary("test", raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"primeiro", "segundo"}, dict.Labels())
}

func TestParseDictionary_RejectsDuplicates(t *testing.T) {
	raw := []byte(`
- label: dup
  keywords: [a]
- label: dup
  keywords: [b]
`)
	_, err := ParseDictionary("test", raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate label")
}

func TestLoadStopwords_BasePlusExtras(t *testing.T) {
	sw, err := LoadStopwords("")
	require.NoError(t, err)

	assert.True(t, sw.Contains("de"))
	assert.True(t, sw.Contains("barulho"))
	assert.False(t, sw.Contains("som"))
	// Time-window terms must stay tokenizable or window inference never fires.
	assert.False(t, sw.Contains("noite"))
	assert.False(t, sw.Contains("madrugada"))
}

func TestLoadStopwords_ExtraFileExtends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.txt")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nextra\n"), 0o644))

	sw, err := LoadStopwords(path)
	require.NoError(t, err)
	assert.True(t, sw.Contains("extra"))
	assert.True(t, sw.Contains("de"))
}

func TestLoadStopwords_MissingExtraFileIsFatal(t *testing.T) {
	_, err := LoadStopwords("/nonexistent/stopwords.txt")
	require.Error(t, err)
}

func TestLemmatizer_TableAndGerunds(t *testing.T) {
	lm, err := LoadLemmatizer("")
	require.NoError(t, err)

	assert.Equal(t, "tocar", lm.Lemma("tocando"))
	assert.Equal(t, "latir", lm.Lemma("late"))
	assert.Equal(t, "alto", lm.Lemma("altas"))
	// Gerund suffix rule without a table entry.
	assert.Equal(t, "reclamar", lm.Lemma("reclamando"))
	assert.Equal(t, "subir", lm.Lemma("subindo"))
	// Short stems keep their surface form.
	assert.Equal(t, "lindo", lm.Lemma("lindo"))
	// Unknown words are their own lemma.
	assert.Equal(t, "som", lm.Lemma("som"))
}

func TestLemmatizer_ExtraFileTakesPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lemmas.tsv")
	require.NoError(t, os.WriteFile(path, []byte("tocando\tsubstituido\n"), 0o644))

	lm, err := LoadLemmatizer(path)
	require.NoError(t, err)
	assert.Equal(t, "substituido", lm.Lemma("tocando"))
}
