package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every environment variable the loader consults so tests
// are insulated from the developer's shell.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"LLM_API_KEY", "LLM_MODEL", "LLM_CHESS_PROVIDER",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "gemini" {
		t.Errorf("provider = %q, want gemini", cfg.Provider)
	}
	if cfg.MoveDelayMs != 500 {
		t.Errorf("move delay = %d, want 500", cfg.MoveDelayMs)
	}
	if cfg.Thinking.MaxRounds != 20 {
		t.Errorf("max rounds = %d, want 20", cfg.Thinking.MaxRounds)
	}
	if cfg.Thinking.Enabled || cfg.Correction {
		t.Error("thinking and correction should default to off")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
provider: anthropic
model: claude-sonnet-4-20250514
correction: true
move_delay_ms: 250
thinking:
  enabled: true
  provider2: openai
  max_rounds: 8
providers:
  anthropic:
    api_key: file-key
  openai:
    api_key: other-key
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", cfg.Provider)
	}
	if cfg.Credential("anthropic") != "file-key" {
		t.Errorf("credential = %q, want file-key", cfg.Credential("anthropic"))
	}
	if !cfg.Thinking.Enabled || cfg.Thinking.Provider2 != "openai" {
		t.Errorf("thinking = %+v", cfg.Thinking)
	}
	if cfg.Thinking.MaxRounds != 8 {
		t.Errorf("max rounds = %d, want 8", cfg.Thinking.MaxRounds)
	}
	if !cfg.Correction {
		t.Error("correction not read from file")
	}
	if cfg.MoveDelayMs != 250 {
		t.Errorf("move delay = %d, want 250", cfg.MoveDelayMs)
	}
}

func TestInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "provider: [broken")

	if _, err := Load(path); err == nil {
		t.Error("invalid yaml accepted")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
provider: gemini
providers:
  gemini:
    api_key: from-file
`)
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("LLM_MODEL", "gemini-2.5-pro")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Credential("gemini") != "from-env" {
		t.Errorf("credential = %q, want from-env", cfg.Credential("gemini"))
	}
	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("model = %q, want gemini-2.5-pro", cfg.Model)
	}
}

func TestGenericKeyBindsActiveProvider(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "provider: openai\n")
	t.Setenv("LLM_API_KEY", "generic-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Credential("openai") != "generic-key" {
		t.Errorf("credential = %q, want generic-key", cfg.Credential("openai"))
	}
}

func TestProviderSelectionFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_CHESS_PROVIDER", "deepseek")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "deepseek" {
		t.Errorf("provider = %q, want deepseek", cfg.Provider)
	}
}

func TestUnknownProviderCredentialEmpty(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Credential("nonexistent"); got != "" {
		t.Errorf("credential = %q, want empty", got)
	}
}
