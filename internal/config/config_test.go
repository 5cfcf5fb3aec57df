package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "env-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want fallback from OPENROUTER_API_KEY", cfg.APIKey)
	}
	if cfg.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.TranslationModel != "anthropic/claude-3.5-sonnet" {
		t.Errorf("TranslationModel = %q", cfg.TranslationModel)
	}
	if cfg.JudgeModel != "anthropic/claude-opus-4.5" {
		t.Errorf("JudgeModel = %q", cfg.JudgeModel)
	}
	// The judge model is not part of the translation menu; the defaults must
	// still load and validate.
	if slices.Contains(cfg.Models, cfg.JudgeModel) {
		t.Errorf("Models = %v unexpectedly contains the judge model", cfg.Models)
	}
	if len(cfg.Models) != 8 {
		t.Errorf("Models = %v, want the 8-entry default menu", cfg.Models)
	}
	if !slices.Contains(cfg.Models, "deepseek/deepseek-r1") {
		t.Errorf("Models = %v, missing deepseek/deepseek-r1", cfg.Models)
	}
	if len(cfg.Languages) != 6 {
		t.Errorf("Languages = %v, want 6 defaults", cfg.Languages)
	}
	if cfg.JobTimeout != 3*time.Minute {
		t.Errorf("JobTimeout = %v", cfg.JobTimeout)
	}
	if !cfg.RetryFailedJobs {
		t.Error("RetryFailedJobs should default to true")
	}
	if len(cfg.IdentityPresets) == 0 {
		t.Error("IdentityPresets should fall back to the shipped presets")
	}
	if len(cfg.IdentityPresets) != 8 {
		t.Errorf("IdentityPresets has %d entries, want 8", len(cfg.IdentityPresets))
	}
	for _, name := range []string{"us-politics", "mental-health", "chemistry", "medical-access"} {
		if _, ok := cfg.IdentityPresets[name]; !ok {
			t.Errorf("missing %s preset", name)
		}
	}
	if cfg.RateLimit.RequestsPerMinute != 60 {
		t.Errorf("RateLimit.RequestsPerMinute = %d", cfg.RateLimit.RequestsPerMinute)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "driftcheck.yaml")
	content := `api_key: file-key
translation_model: openai/gpt-4o
judge_model: anthropic/claude-3.5-sonnet
languages: ["es", "ru"]
workers: 8
db_path: ` + filepath.Join(dir, "runs.db") + `
identity_presets:
  custom:
    identity_a: "first persona"
    identity_b: "second persona"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "file-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.TranslationModel != "openai/gpt-4o" {
		t.Errorf("TranslationModel = %q", cfg.TranslationModel)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if got := cfg.IdentityPresets["custom"].IdentityB; got != "second persona" {
		t.Errorf("custom preset identity_b = %q", got)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Models:           []string{"m/one", "m/two"},
			TranslationModel: "m/one",
			JudgeModel:       "m/two",
			Languages:        []string{"es"},
			Workers:          3,
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	c := base()
	c.TranslationModel = "m/other"
	if err := c.Validate(); err == nil {
		t.Error("translation model outside allow-list accepted")
	}

	// The allow-list governs the translation menu only; a judge model outside
	// it is fine.
	c = base()
	c.JudgeModel = "m/other"
	if err := c.Validate(); err != nil {
		t.Errorf("judge model outside translation menu rejected: %v", err)
	}

	c = base()
	c.Languages = nil
	if err := c.Validate(); err == nil {
		t.Error("empty language set accepted")
	}

	c = base()
	c.Workers = 1
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.Workers != 3 {
		t.Errorf("Workers = %d, want raised to 3", c.Workers)
	}
}
