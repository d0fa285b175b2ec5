package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingCredentials = errors.New("missing credentials")

// Credentials are the reddit app secrets read from the environment.
type Credentials struct {
	ClientID     string `mapstructure:"REDDIT_CLIENT_ID"`
	ClientSecret string `mapstructure:"REDDIT_CLIENT_SECRET"`
	UserAgent    string `mapstructure:"REDDIT_USER_AGENT"`
	Username     string `mapstructure:"REDDIT_USERNAME"`
	Password     string `mapstructure:"REDDIT_PASSWORD"`
}

// Validate checks the values every authenticated client needs.
func (c Credentials) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "REDDIT_CLIENT_ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "REDDIT_CLIENT_SECRET")
	}
	if c.UserAgent == "" {
		missing = append(missing, "REDDIT_USER_AGENT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// Config holds all configuration for the application.
// Values are read by viper from an optional config file or environment variables.
type Config struct {
	Mode        string      `mapstructure:"COLLECTOR_MODE"`
	Credentials Credentials `mapstructure:",squash"`

	PushshiftURL string `mapstructure:"PUSHSHIFT_URL"`

	FirecrawlAPIKey string `mapstructure:"FIRECRAWL_API_KEY"`
	FirecrawlURL    string `mapstructure:"FIRECRAWL_URL"`
	GroqAPIKey      string `mapstructure:"GROQ_API_KEY"`
	GroqURL         string `mapstructure:"GROQ_URL"`
	GroqModel       string `mapstructure:"GROQ_MODEL"`

	OutputDir  string        `mapstructure:"OUTPUT_DIR"`
	Port       string        `mapstructure:"PORT"`
	LogLevel   string        `mapstructure:"LOG_LEVEL"`
	LogFormat  string        `mapstructure:"LOG_FORMAT"`
	FacetDelay time.Duration `mapstructure:"FACET_DELAY"`
}

func defaults() map[string]any {
	return map[string]any{
		"COLLECTOR_MODE":       DefaultMode,
		"REDDIT_CLIENT_ID":     "",
		"REDDIT_CLIENT_SECRET": "",
		"REDDIT_USER_AGENT":    "",
		"REDDIT_USERNAME":      "",
		"REDDIT_PASSWORD":      "",
		"PUSHSHIFT_URL":        DefaultPushshiftURL,
		"FIRECRAWL_API_KEY":    "",
		"FIRECRAWL_URL":        DefaultFirecrawlURL,
		"GROQ_API_KEY":         "",
		"GROQ_URL":             DefaultGroqURL,
		"GROQ_MODEL":           DefaultGroqModel,
		"OUTPUT_DIR":           DefaultOutputDir,
		"PORT":                 DefaultPort,
		"LOG_LEVEL":            DefaultLogLevel,
		"LOG_FORMAT":           DefaultLogFormat,
		"FACET_DELAY":          DefaultFacetDelay,
	}
}

// Load reads .env (if present), then the optional config file, then the
// process environment. An empty path looks for scraper.yaml in the working
// directory and tolerates its absence.
func Load(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("scraper")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	return cfg, nil
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
