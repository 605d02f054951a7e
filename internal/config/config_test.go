package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/warscope.yaml")
	require.NoError(t, err)
	require.Equal(t, "WEB-INF/classes/", cfg.Archive.ClassesPrefix)
	require.Equal(t, "WEB-INF/lib/", cfg.Archive.LibPrefix)
	require.Equal(t, ".class", cfg.Archive.ClassSuffix)
	require.Equal(t, ".jar", cfg.Archive.JarSuffix)
	require.Equal(t, 300, cfg.Analysis.TimeoutSeconds)
	require.Contains(t, cfg.Lexicon.MutatingNames, "create")
	require.Contains(t, cfg.Lexicon.ServiceOperations, "authorize")
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/warscope.yaml"
	err := writeFile(path, []byte(`
archive:
  classes_prefix: WEB-INF/classes
analysis:
  timeout_seconds: 60
`))
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "WEB-INF/classes/", cfg.Archive.ClassesPrefix)
	require.Equal(t, 60, cfg.Analysis.TimeoutSeconds)
}

func TestNormalizeRejectsNonPositiveTimeout(t *testing.T) {
	c := &Config{}
	c.normalize()
	require.Equal(t, 300, c.Analysis.TimeoutSeconds)
	require.Equal(t, 1, c.Analysis.Concurrency)
}

func writeFile(path string, content []byte) error {
	return os.WriteFile(path, content, 0o644)
}
