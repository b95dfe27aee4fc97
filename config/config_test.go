package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Server struct {
		Port int    `mapstructure:"port"`
		Host string `mapstructure:"host"`
	} `mapstructure:"server"`
	Logger struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logger"`
}

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := "server:\n  port: 9090\n  host: 127.0.0.1\nlogger:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	var cfg testConfig
	if err := Load("graphrun", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Logger.Level != "debug" {
		t.Fatalf("expected level debug, got %q", cfg.Logger.Level)
	}
}

func TestLoad_MissingFileIsNotFatal(t *testing.T) {
	var cfg testConfig
	if err := Load("nonexistent-service", &cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_BadYAMLFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}
	var cfg testConfig
	if err := Load("graphrun", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected parse error")
	}
}
