package gemini

import "testing"

func TestNewConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEMINI_MODEL", "custom")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}

	if cfg.APIKey != "key" || cfg.Model != "custom" {
		t.Fatalf("unexpected config values: %+v", cfg)
	}
}

func TestNewConfigDefaultModel(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("GEMINI_MODEL", "")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Fatalf("expected default model, got %s", cfg.Model)
	}
}

func TestNewConfigMissingKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := NewConfig(); err == nil {
		t.Fatal("expected error when API key missing")
	}
}
