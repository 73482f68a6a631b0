package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	ScrapTik   ScrapTikConfig   `yaml:"scraptik"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Sync       SyncConfig       `yaml:"sync"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	Backfill   BackfillConfig   `yaml:"backfill"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" envconfig:"SERVER_PORT" default:"8000"`
	APIKey       string        `yaml:"api_key" envconfig:"API_KEY"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT" default:"5m"`
}

// DatabaseConfig holds Postgres connection configuration.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn" envconfig:"DATABASE_URL"`
	MaxOpenConns int    `yaml:"max_open_conns" envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns int    `yaml:"max_idle_conns" envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
}

// ScrapTikConfig holds the scraping API configuration.
type ScrapTikConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"SCRAPTIK_BASE_URL" default:"https://scraptik.p.rapidapi.com"`
	Host    string        `yaml:"host" envconfig:"SCRAPTIK_HOST" default:"scraptik.p.rapidapi.com"`
	APIKey  string        `yaml:"api_key" envconfig:"RAPIDAPI_KEY"`
	Timeout time.Duration `yaml:"timeout" envconfig:"SCRAPTIK_TIMEOUT" default:"60s"`
	Region  string        `yaml:"region" envconfig:"SCRAPTIK_REGION" default:"GB"`
}

// OpenAIConfig holds Whisper and chat-completion configuration.
type OpenAIConfig struct {
	APIKey       string        `yaml:"api_key" envconfig:"OPENAI_API_KEY"`
	BaseURL      string        `yaml:"base_url" envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	WhisperModel string        `yaml:"whisper_model" envconfig:"OPENAI_WHISPER_MODEL" default:"whisper-1"`
	ChatModel    string        `yaml:"chat_model" envconfig:"OPENAI_CHAT_MODEL" default:"gpt-4"`
	Language     string        `yaml:"language" envconfig:"TRANSCRIPTION_LANGUAGE" default:"pt"`
	Timeout      time.Duration `yaml:"timeout" envconfig:"OPENAI_TIMEOUT" default:"5m"`
}

// SyncConfig holds the sponsored-video sync configuration.
type SyncConfig struct {
	Mention  string        `yaml:"mention" envconfig:"SPONSOR_MENTION" default:"@El Dorado P2P"`
	PageSize int           `yaml:"page_size" envconfig:"SYNC_VIDEO_COUNT" default:"20"`
	Delay    time.Duration `yaml:"delay" envconfig:"SYNC_DELAY" default:"2s"`
	// CronSpec schedules a bulk sync (e.g. "0 5 * * *"); empty disables it.
	CronSpec string `yaml:"cron_spec" envconfig:"SYNC_CRON"`
}

// TranscribeConfig holds the media download and size-reduction configuration.
type TranscribeConfig struct {
	MaxFileSize     int64         `yaml:"max_file_size" envconfig:"TRANSCRIBE_MAX_FILE_SIZE" default:"26214400"` // 25MB
	TempPath        string        `yaml:"temp_path" envconfig:"TRANSCRIBE_TEMP_PATH"`
	DownloadTimeout time.Duration `yaml:"download_timeout" envconfig:"TRANSCRIBE_DOWNLOAD_TIMEOUT" default:"2m"`
	UserAgent       string        `yaml:"user_agent" envconfig:"TRANSCRIBE_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"`
}

// BackfillConfig holds the background transcript backfill configuration.
// Disabled by default: every backfilled video costs a Whisper call.
type BackfillConfig struct {
	Enabled      bool          `yaml:"enabled" envconfig:"BACKFILL_ENABLED" default:"false"`
	Workers      int           `yaml:"workers" envconfig:"BACKFILL_WORKERS" default:"1"`
	PollInterval time.Duration `yaml:"poll_interval" envconfig:"BACKFILL_POLL_INTERVAL" default:"5m"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if cfg.Transcribe.TempPath == "" {
		cfg.Transcribe.TempPath = os.TempDir()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Server.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.ScrapTik.APIKey == "" {
		return fmt.Errorf("RAPIDAPI_KEY is required")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
