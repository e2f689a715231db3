// ABOUTME: Tests for configuration loading
// ABOUTME: Covers defaults, YAML overrides, durations and env key lookup
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Gemini.TextModel != "gemini-3-pro-preview" {
		t.Errorf("unexpected text model %q", cfg.Gemini.TextModel)
	}
	if cfg.Gemini.SpeechModel != "gemini-2.5-flash-preview-tts" {
		t.Errorf("unexpected speech model %q", cfg.Gemini.SpeechModel)
	}
	if cfg.Gemini.Voice != "Puck" {
		t.Errorf("unexpected voice %q", cfg.Gemini.Voice)
	}
	if cfg.Gemini.BatchSize != 20 {
		t.Errorf("unexpected batch size %d", cfg.Gemini.BatchSize)
	}
	if cfg.Gemini.Timeout != 0 {
		t.Errorf("expected no timeout by default, got %v", cfg.Gemini.Timeout.ToDuration())
	}
	if cfg.Audio.Overlap {
		t.Error("expected serialized playback by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
gemini:
  voice: Kore
  timeout: 45s
  batch_size: -3
audio:
  overlap: true
  volume: 250
auth:
  timeout: 30
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Gemini.Voice != "Kore" {
		t.Errorf("expected Kore, got %q", cfg.Gemini.Voice)
	}
	if cfg.Gemini.Timeout.ToDuration() != 45*time.Second {
		t.Errorf("expected 45s, got %v", cfg.Gemini.Timeout.ToDuration())
	}
	if cfg.Gemini.BatchSize != 20 {
		t.Errorf("invalid batch size should fall back to 20, got %d", cfg.Gemini.BatchSize)
	}
	if cfg.Gemini.TextModel != "gemini-3-pro-preview" {
		t.Errorf("unset model should keep default, got %q", cfg.Gemini.TextModel)
	}
	if !cfg.Audio.Overlap {
		t.Error("expected overlap enabled")
	}
	if cfg.Audio.Volume != 100 {
		t.Errorf("volume should clamp to 100, got %d", cfg.Audio.Volume)
	}
	if cfg.Auth.Timeout.ToDuration() != 30*time.Second {
		t.Errorf("integer duration should be seconds, got %v", cfg.Auth.Timeout.ToDuration())
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug, got %q", cfg.Log.Level)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "gemini: [unterminated")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{`d: 5s`, 5 * time.Second, false},
		{`d: 2m`, 2 * time.Minute, false},
		{`d: 10`, 10 * time.Second, false},
		{`d: "15"`, 15 * time.Second, false},
		{`d: ""`, 0, false},
		{`d: soon`, 0, true},
	}

	for _, tt := range tests {
		var v struct {
			D Duration `yaml:"d"`
		}
		err := yaml.Unmarshal([]byte(tt.in), &v)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.in, err)
			continue
		}
		if v.D.ToDuration() != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.in, tt.want, v.D.ToDuration())
		}
	}
}

func TestAPIKeyFallback(t *testing.T) {
	cfg := Default()

	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "fallback")
	if got := cfg.APIKey(); got != "fallback" {
		t.Errorf("expected fallback key, got %q", got)
	}

	t.Setenv("GEMINI_API_KEY", " primary ")
	if got := cfg.APIKey(); got != "primary" {
		t.Errorf("expected primary key, got %q", got)
	}
}
