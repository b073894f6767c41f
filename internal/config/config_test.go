package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/pagedb/internal/config"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("buffer_pool_size: 64\nreplacer: LRUKReplacer\nlru_k: 3\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 64, cfg.BufferPoolSize)
	require.Equal(t, "LRUKReplacer", cfg.Replacer)
	require.Equal(t, 3, cfg.LRUK)
	require.Equal(t, config.Defaults().PageSize, cfg.PageSize)
}

func TestDefaults(t *testing.T) {
	d := config.Defaults()
	require.Equal(t, 8192, d.PageSize)
	require.Equal(t, "LRUReplacer", d.Replacer)
}
