package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileConfig is the config.toml key mapping to pgprotodump's runtime
// settings, following the overlay-over-defaults pattern cmd/miragectl uses.
type fileConfig struct {
	Addr           string `toml:"addr"`
	MaxMessageSize int    `toml:"max_message_size"`
	ChunkSize      int    `toml:"chunk_size"`
	LogLevel       string `toml:"log_level"`
}

type dumpConfig struct {
	Addr           string
	MaxMessageSize int
	ChunkSize      int
	LogLevel       string
}

func defaultDumpConfig() dumpConfig {
	return dumpConfig{
		Addr:           "localhost:5432",
		MaxMessageSize: 64 << 20,
		ChunkSize:      4096,
		LogLevel:       "info",
	}
}

func loadDumpConfig(path string) (dumpConfig, error) {
	cfg := defaultDumpConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return dumpConfig{}, fmt.Errorf("load pgprotodump config: %w", err)
	}

	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("max_message_size") {
		cfg.MaxMessageSize = raw.MaxMessageSize
	}
	if meta.IsDefined("chunk_size") {
		cfg.ChunkSize = raw.ChunkSize
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if cfg.Addr == "" {
		return dumpConfig{}, fmt.Errorf("load pgprotodump config: addr must not be empty")
	}
	if cfg.MaxMessageSize <= 0 {
		return dumpConfig{}, fmt.Errorf("load pgprotodump config: max_message_size must be positive")
	}
	if cfg.ChunkSize <= 0 {
		return dumpConfig{}, fmt.Errorf("load pgprotodump config: chunk_size must be positive")
	}
	return cfg, nil
}
