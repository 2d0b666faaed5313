package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoader(home, cwd string) *Loader {
	l := NewLoader(nil)
	l.home = func() (string, error) { return home, nil }
	l.cwd = func() (string, error) { return cwd, nil }
	return l
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoaderDefaults(t *testing.T) {
	cfg, err := testLoader(t.TempDir(), t.TempDir()).Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoaderLayering(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	nested := filepath.Join(project, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
loader:
  recursive: true
bundle:
  publisher: "User Publisher"
`)
	writeFile(t, filepath.Join(project, ProjectConfigFile), `
catalog:
  path: ontology/catalog-v001.xml
ontology:
  path: ontology/root.ttl
bundle:
  publisher: "Project Publisher"
`)

	cfg, err := testLoader(home, nested).Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Loader.Recursive)
	assert.Equal(t, "Project Publisher", cfg.Bundle.Publisher)
	assert.Equal(t, filepath.Join(project, "ontology", "catalog-v001.xml"), cfg.Catalog.Path)
	assert.Equal(t, filepath.Join(project, "ontology", "root.ttl"), cfg.Ontology.Path)
}

func TestLoaderProjectKeepsUnsetUserKeys(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()

	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
catalog:
  path: /srv/fibo/catalog-v001.xml
loader:
  import_format: turtle
`)
	writeFile(t, filepath.Join(project, ProjectConfigFile), `
ontology:
  path: root.ttl
`)

	cfg, err := testLoader(home, project).Load("")
	require.NoError(t, err)

	assert.Equal(t, "/srv/fibo/catalog-v001.xml", cfg.Catalog.Path)
	assert.Equal(t, "turtle", cfg.Loader.ImportFormat)
	assert.Equal(t, "turtle", cfg.Loader.RootFormat)
	assert.Equal(t, filepath.Join(project, "root.ttl"), cfg.Ontology.Path)
	assert.Equal(t, DefaultConfig().Bundle.Timeout, cfg.Bundle.Timeout)
}

func TestLoaderExplicitFileWins(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, ProjectConfigFile), `
ontology:
  path: /project/root.ttl
`)
	explicit := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, explicit, `
ontology:
  path: /explicit/root.ttl
`)

	cfg, err := testLoader(t.TempDir(), project).Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, "/explicit/root.ttl", cfg.Ontology.Path)
}

func TestLoaderExplicitFileErrors(t *testing.T) {
	_, err := testLoader(t.TempDir(), t.TempDir()).Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	writeFile(t, invalid, `
loader:
  root_format: csv
`)
	_, err = testLoader(t.TempDir(), t.TempDir()).Load(invalid)
	assert.Error(t, err)
}

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	l := testLoader(home, t.TempDir())

	path, err := l.EnsureUserConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, UserConfigDir, UserConfigFile), path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Catalog.Path, cfg.Catalog.Path)

	require.NoError(t, os.WriteFile(path, []byte("catalog:\n  path: mine.xml\n"), 0644))
	again, err := l.EnsureUserConfig()
	require.NoError(t, err)
	assert.Equal(t, path, again)

	cfg, err = LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mine.xml", cfg.Catalog.Path, "existing user config is left alone")
}
