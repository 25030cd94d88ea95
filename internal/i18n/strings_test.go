package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTurkishDefault(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "tr", s.Locale())
	assert.Equal(t, "Filtrele...", s.T("filter.placeholder"))
	assert.Equal(t, "Sayfa", s.T("pager.page"))
	assert.Equal(t, "Temizle", s.T("filter.clear"))
	assert.Equal(t, "Tümünü Seç", s.T("filter.select_all"))
	assert.Equal(t, "Hiçbirini Seçme", s.T("filter.select_none"))
	assert.Equal(t, "Filtreleri Temizle", s.T("filter.clear_all"))
	assert.Equal(t, "satır göster", s.T("pager.rows_per_page"))
	assert.Equal(t, "kayıt", s.T("pager.records"))
	assert.Equal(t, "Sonuç bulunamadı", s.T("table.empty"))
	assert.Equal(t, "Ara...", s.T("search.placeholder"))
	assert.Equal(t, "Değerlerde ara...", s.T("filter.search_values"))
}

func TestLocalesHaveSameKeys(t *testing.T) {
	tr, err := readBuiltin("tr")
	require.NoError(t, err)
	en, err := readBuiltin("en")
	require.NoError(t, err)

	for k := range tr {
		assert.Contains(t, en, k)
	}
	for k := range en {
		assert.Contains(t, tr, k)
	}
	assert.Equal(t, []string{"en", "tr"}, Locales())
}

func TestUnknownLocaleFallsBack(t *testing.T) {
	s, err := Load("de")
	require.NoError(t, err)
	assert.Equal(t, "tr", s.Locale())
	assert.Equal(t, "Sayfa", s.T("pager.page"))
}

func TestMissingKey(t *testing.T) {
	s := MustLoad("en")
	assert.Equal(t, "no.such.key", s.T("no.such.key"))

	var nilStrings *Strings
	assert.Equal(t, "pager.page", nilStrings.T("pager.page"))
}

func TestFormat(t *testing.T) {
	s := MustLoad("en")
	assert.Equal(t, "Filter: City", s.F("filter.title", "City"))
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pager.page: \"Sf.\"\n"), 0o644))

	s := MustLoad("tr")
	require.NoError(t, s.LoadOverrides(path))
	assert.Equal(t, "Sf.", s.T("pager.page"))
	assert.Equal(t, "Temizle", s.T("filter.clear"))

	assert.Error(t, s.LoadOverrides(filepath.Join(dir, "missing.yaml")))
}
