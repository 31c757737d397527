package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != defaultPort {
		t.Errorf("expected port %q, got %q", defaultPort, cfg.Port)
	}
	if cfg.DatabaseURL != defaultDatabaseURL {
		t.Errorf("expected default database URL, got %q", cfg.DatabaseURL)
	}
	if cfg.MaxActiveInterests != DefaultMaxActiveInterests {
		t.Errorf("expected cap %d, got %d", DefaultMaxActiveInterests, cfg.MaxActiveInterests)
	}
	if cfg.NotifyBuffer != defaultNotifyBuffer {
		t.Errorf("expected buffer %d, got %d", defaultNotifyBuffer, cfg.NotifyBuffer)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GROUPDEALS_PORT", "9090")
	t.Setenv("GROUPDEALS_MAX_ACTIVE_INTERESTS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.MaxActiveInterests != 5 {
		t.Errorf("expected cap 5, got %d", cfg.MaxActiveInterests)
	}
}

func TestLoad_InvalidCapFallsBack(t *testing.T) {
	t.Setenv("GROUPDEALS_MAX_ACTIVE_INTERESTS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.MaxActiveInterests != DefaultMaxActiveInterests {
		t.Errorf("expected fallback cap %d, got %d", DefaultMaxActiveInterests, cfg.MaxActiveInterests)
	}
}
