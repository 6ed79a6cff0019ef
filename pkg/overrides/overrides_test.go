package overrides_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fightdex/fightdex/pkg/identity"
	"github.com/fightdex/fightdex/pkg/overrides"
	"github.com/fightdex/fightdex/pkg/sources"
)

func TestTableSetLookup(t *testing.T) {
	tbl := overrides.New()
	tbl.Set("Alexander Pantoja", overrides.Correction{Name: "Alexandre Pantoja"})

	c, ok := tbl.Lookup(identity.Normalize("Alexander Pantoja"))
	require.True(t, ok)
	assert.Equal(t, "Alexandre Pantoja", c.Name)

	_, ok = tbl.Lookup("SOMEBODY ELSE")
	assert.False(t, ok)
}

func TestTableRef(t *testing.T) {
	tbl := overrides.New()
	tbl.Set("Weili Zhang", overrides.Correction{
		Refs: map[sources.ID]string{sources.Sherdog: "https://example.com/fighter/123"},
	})

	key := identity.Normalize("Weili Zhang")
	assert.Equal(t, "https://example.com/fighter/123", tbl.Ref(key, sources.Sherdog))
	assert.Empty(t, tbl.Ref(key, sources.Tapology))
	assert.Empty(t, tbl.Ref("UNKNOWN", sources.Sherdog))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yaml")
	content := `
"Alexander Pantoja":
  name: Alexandre Pantoja
"Weili Zhang":
  refs:
    sherdog: https://example.com/fighter/123
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tbl, err := overrides.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())

	c, ok := tbl.Lookup(identity.Normalize("Alexander Pantoja"))
	require.True(t, ok)
	assert.Equal(t, "Alexandre Pantoja", c.Name)
	assert.Equal(t, "https://example.com/fighter/123",
		tbl.Ref(identity.Normalize("Weili Zhang"), sources.Sherdog))
}

func TestLoadMissingFile(t *testing.T) {
	tbl, err := overrides.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Zero(t, tbl.Len())
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{:::not yaml"), 0o644))

	_, err := overrides.Load(path)
	assert.Error(t, err)
}
