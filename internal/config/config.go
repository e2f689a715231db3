// ABOUTME: Application configuration loaded from YAML and the environment
// ABOUTME: Provides defaults for Gemini, audio, sign-in, storage and logging
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "ujokes"

// Fallback env var consulted when the configured API key variable is empty
const fallbackAPIKeyEnv = "API_KEY"

type Duration time.Duration

func (d Duration) ToDuration() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*d = 0
		return nil
	}
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar")
	}

	// allow: "5s", "2m", or integer seconds
	switch value.Tag {
	case "!!int":
		i, err := strconv.ParseInt(value.Value, 10, 64)
		if err != nil {
			return err
		}
		*d = Duration(time.Duration(i) * time.Second)
		return nil
	case "!!str":
		if value.Value == "" {
			*d = 0
			return nil
		}
		if dur, err := time.ParseDuration(value.Value); err == nil {
			*d = Duration(dur)
			return nil
		}
		if i, err := strconv.ParseInt(value.Value, 10, 64); err == nil {
			*d = Duration(time.Duration(i) * time.Second)
			return nil
		}
		return fmt.Errorf("invalid duration: %q", value.Value)
	default:
		if dur, err := time.ParseDuration(value.Value); err == nil {
			*d = Duration(dur)
			return nil
		}
		return fmt.Errorf("invalid duration: %q", value.Value)
	}
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

type Config struct {
	Gemini  GeminiConfig  `yaml:"gemini"`
	Audio   AudioConfig   `yaml:"audio"`
	Auth    AuthConfig    `yaml:"auth"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

type GeminiConfig struct {
	APIKeyEnv   string   `yaml:"api_key_env"`
	BaseURL     string   `yaml:"base_url"` // empty uses the SDK default endpoint
	TextModel   string   `yaml:"text_model"`
	SpeechModel string   `yaml:"speech_model"`
	Voice       string   `yaml:"voice"`
	BatchSize   int      `yaml:"batch_size"`
	Timeout     Duration `yaml:"timeout"` // 0 means no local timeout
}

type AudioConfig struct {
	// Overlap lets a second narration start while another is playing
	Overlap      bool     `yaml:"overlap"`
	Volume       int      `yaml:"volume"` // 0-100
	Muted        bool     `yaml:"muted"`
	PollInterval Duration `yaml:"poll_interval"`
	CacheSpeech  bool     `yaml:"cache_speech"`
}

type AuthConfig struct {
	ClientIDEnv     string   `yaml:"client_id_env"`
	ClientSecretEnv string   `yaml:"client_secret_env"`
	RedirectHost    string   `yaml:"redirect_host"`
	AuthorizedHosts []string `yaml:"authorized_hosts"`
	AuthURL         string   `yaml:"auth_url"`
	TokenURL        string   `yaml:"token_url"`
	UserInfoURL     string   `yaml:"userinfo_url"`
	Timeout         Duration `yaml:"timeout"` // how long to wait for the browser callback
}

type StorageConfig struct {
	Dir       string `yaml:"dir"`
	AvatarDir string `yaml:"avatar_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func Default() Config {
	return Config{
		Gemini: GeminiConfig{
			APIKeyEnv:   "GEMINI_API_KEY",
			TextModel:   "gemini-3-pro-preview",
			SpeechModel: "gemini-2.5-flash-preview-tts",
			Voice:       "Puck",
			BatchSize:   20,
		},
		Audio: AudioConfig{
			Volume:       100,
			PollInterval: Duration(20 * time.Millisecond),
			CacheSpeech:  true,
		},
		Auth: AuthConfig{
			ClientIDEnv:     "UJOKES_GOOGLE_CLIENT_ID",
			ClientSecretEnv: "UJOKES_GOOGLE_CLIENT_SECRET",
			RedirectHost:    "127.0.0.1",
			AuthorizedHosts: []string{"127.0.0.1", "localhost"},
			AuthURL:         "https://accounts.google.com/o/oauth2/auth",
			TokenURL:        "https://oauth2.googleapis.com/token",
			UserInfoURL:     "https://openidconnect.googleapis.com/v1/userinfo",
			Timeout:         Duration(2 * time.Minute),
		},
		Storage: StorageConfig{
			Dir:       filepath.Join(configDir(), "state"),
			AvatarDir: filepath.Join(cacheDir(), "avatars"),
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(cacheDir(), appName+".log"),
		},
	}
}

// DefaultPath returns the config file location under the user config dir
func DefaultPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// Load reads the YAML file at path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.sanitize()
	return cfg, nil
}

func (cfg *Config) sanitize() {
	def := Default()

	if cfg.Gemini.APIKeyEnv == "" {
		cfg.Gemini.APIKeyEnv = def.Gemini.APIKeyEnv
	}
	if cfg.Gemini.TextModel == "" {
		cfg.Gemini.TextModel = def.Gemini.TextModel
	}
	if cfg.Gemini.SpeechModel == "" {
		cfg.Gemini.SpeechModel = def.Gemini.SpeechModel
	}
	if cfg.Gemini.Voice == "" {
		cfg.Gemini.Voice = def.Gemini.Voice
	}
	if cfg.Gemini.BatchSize <= 0 {
		cfg.Gemini.BatchSize = def.Gemini.BatchSize
	}
	if cfg.Gemini.Timeout < 0 {
		cfg.Gemini.Timeout = 0
	}

	if cfg.Audio.Volume < 0 {
		cfg.Audio.Volume = 0
	}
	if cfg.Audio.Volume > 100 {
		cfg.Audio.Volume = 100
	}
	if cfg.Audio.PollInterval.ToDuration() <= 0 {
		cfg.Audio.PollInterval = def.Audio.PollInterval
	}

	if cfg.Auth.ClientIDEnv == "" {
		cfg.Auth.ClientIDEnv = def.Auth.ClientIDEnv
	}
	if cfg.Auth.ClientSecretEnv == "" {
		cfg.Auth.ClientSecretEnv = def.Auth.ClientSecretEnv
	}
	if cfg.Auth.RedirectHost == "" {
		cfg.Auth.RedirectHost = def.Auth.RedirectHost
	}
	if len(cfg.Auth.AuthorizedHosts) == 0 {
		cfg.Auth.AuthorizedHosts = def.Auth.AuthorizedHosts
	}
	if cfg.Auth.AuthURL == "" {
		cfg.Auth.AuthURL = def.Auth.AuthURL
	}
	if cfg.Auth.TokenURL == "" {
		cfg.Auth.TokenURL = def.Auth.TokenURL
	}
	if cfg.Auth.UserInfoURL == "" {
		cfg.Auth.UserInfoURL = def.Auth.UserInfoURL
	}
	if cfg.Auth.Timeout.ToDuration() <= 0 {
		cfg.Auth.Timeout = def.Auth.Timeout
	}

	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = def.Storage.Dir
	}
	if cfg.Storage.AvatarDir == "" {
		cfg.Storage.AvatarDir = def.Storage.AvatarDir
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.File == "" {
		cfg.Log.File = def.Log.File
	}
}

// APIKey returns the Gemini API key from the environment
func (cfg Config) APIKey() string {
	if v := strings.TrimSpace(os.Getenv(cfg.Gemini.APIKeyEnv)); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(fallbackAPIKeyEnv))
}

// ClientID returns the OAuth client id from the environment
func (cfg Config) ClientID() string {
	return strings.TrimSpace(os.Getenv(cfg.Auth.ClientIDEnv))
}

// ClientSecret returns the OAuth client secret from the environment
func (cfg Config) ClientSecret() string {
	return strings.TrimSpace(os.Getenv(cfg.Auth.ClientSecretEnv))
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appName)
}

func cacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appName)
}
