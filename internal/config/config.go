// Package config loads engine tunables from a YAML file via viper, the
// way novasql's NovaSqlConfig loaded storage/server settings.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// EngineConfig holds the core's own knobs: page and buffer geometry, the
// replacement policy, and the sort operator's memory budget. It is
// ambient plumbing for the engine's internal tuning, not the excluded
// SQL-layer configuration (schema/user config, connection strings).
type EngineConfig struct {
	PageSize       int    `mapstructure:"page_size"`
	BufferPoolSize int    `mapstructure:"buffer_pool_size"`
	SortBufferSize int    `mapstructure:"sort_buffer_size"`
	Replacer       string `mapstructure:"replacer"` // "LRUReplacer" or "LRUKReplacer"
	LRUK           int    `mapstructure:"lru_k"`
	DataDir        string `mapstructure:"data_dir"`
}

// Defaults returns an EngineConfig with reasonable standalone values,
// used when no config file is supplied.
func Defaults() EngineConfig {
	return EngineConfig{
		PageSize:       8192,
		BufferPoolSize: 128,
		SortBufferSize: 4 << 20, // 4 MiB
		Replacer:       "LRUReplacer",
		LRUK:           2,
		DataDir:        "data",
	}
}

// Load reads an EngineConfig from a YAML file at path, defaulting any
// field the file omits.
func Load(path string) (EngineConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	cfg := Defaults()
	v.SetDefault("page_size", cfg.PageSize)
	v.SetDefault("buffer_pool_size", cfg.BufferPoolSize)
	v.SetDefault("sort_buffer_size", cfg.SortBufferSize)
	v.SetDefault("replacer", cfg.Replacer)
	v.SetDefault("lru_k", cfg.LRUK)
	v.SetDefault("data_dir", cfg.DataDir)

	if err := v.ReadInConfig(); err != nil {
		return EngineConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}
