package server

import "testing"

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.ReadTimeout == 0 || cfg.WriteTimeout == 0 || cfg.IdleTimeout == 0 {
		t.Error("timeouts must default to non-zero values")
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Error("CORS origins must default")
	}
}

func TestConfigApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{Port: 9999, ReadTimeout: 3}
	cfg.ApplyDefaults()

	if cfg.Port != 9999 || cfg.ReadTimeout != 3 {
		t.Fatalf("explicit values overwritten: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Port: 8080}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	for _, bad := range []Config{
		{Port: -1},
		{Port: 70000},
		{Port: 8080, ReadTimeout: -1},
		{Port: 8080, WriteTimeout: -1},
		{Port: 8080, IdleTimeout: -1},
	} {
		if err := bad.Validate(); err == nil {
			t.Errorf("config %+v accepted, want error", bad)
		}
	}
}
