package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:bullbear.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	News NewsConfig `yaml:"news" json:"news" jsonschema:"description=News provider configuration"`

	Telegram TelegramConfig `yaml:"telegram" json:"telegram" jsonschema:"description=Telegram delivery configuration"`

	Schedule ScheduleConfig `yaml:"schedule" json:"schedule" jsonschema:"description=Scheduler configuration"`
}

// NewsConfig holds news provider settings. With an API key set the GNews
// API is used; without one the Google News RSS search feed is used instead.
type NewsConfig struct {
	APIKey     string        `yaml:"api_key" json:"api_key" jsonschema:"description=GNews API key (can use environment variable)"`
	BaseURL    string        `yaml:"base_url" json:"base_url" jsonschema:"description=Provider endpoint override for testing"`
	Language   string        `yaml:"language" json:"language" jsonschema:"default=en,description=Two-letter language code for news queries"`
	MaxResults int           `yaml:"max_results" json:"max_results" jsonschema:"default=3,minimum=1,description=Desired items per topic per cycle before over-fetch"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Fetch timeout per topic"`
}

// TelegramConfig holds the delivery channel settings
type TelegramConfig struct {
	Token    string `yaml:"token" json:"token" jsonschema:"required,description=Telegram bot token (can use environment variable)"`
	Endpoint string `yaml:"endpoint" json:"endpoint" jsonschema:"description=Bot API endpoint override for testing"`
}

// ScheduleConfig holds the fanout and maintenance timer settings
type ScheduleConfig struct {
	CheckInterval   time.Duration `yaml:"check_interval" json:"check_interval" jsonschema:"default=1h,description=News check cycle interval"`
	CycleTimeout    time.Duration `yaml:"cycle_timeout" json:"cycle_timeout" jsonschema:"default=10m,description=Overall timeout for one check cycle"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" json:"cleanup_interval" jsonschema:"default=24h,description=Ledger cleanup interval"`
	RetentionDays   int           `yaml:"retention_days" json:"retention_days" jsonschema:"default=7,minimum=1,description=Days to keep delivery records"`
	MaxWorkers      int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,minimum=1,description=Maximum concurrent topic fetches"`
	ScoreThreshold  *float64      `yaml:"score_threshold" json:"score_threshold" jsonschema:"default=0.3,minimum=0,maximum=1,description=Minimum relevance score for delivery, explicit 0 disables score filtering"`
	DeliveryPause   time.Duration `yaml:"delivery_pause" json:"delivery_pause" jsonschema:"default=500ms,description=Pause between consecutive deliveries"`
	TopicPause      time.Duration `yaml:"topic_pause" json:"topic_pause" jsonschema:"default=2s,description=Pause between topics within a cycle"`
	ShowRelevance   bool          `yaml:"show_relevance" json:"show_relevance" jsonschema:"default=false,description=Include relevance stars in delivered messages"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// set defaults for database
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:bullbear.db?cache=shared&mode=rwc"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	// set defaults for news provider
	if cfg.News.Language == "" {
		cfg.News.Language = "en"
	}
	if cfg.News.MaxResults == 0 {
		cfg.News.MaxResults = 3
	}
	if cfg.News.Timeout == 0 {
		cfg.News.Timeout = 10 * time.Second
	}

	// set defaults for schedule
	if cfg.Schedule.CheckInterval == 0 {
		cfg.Schedule.CheckInterval = time.Hour
	}
	if cfg.Schedule.CycleTimeout == 0 {
		cfg.Schedule.CycleTimeout = 10 * time.Minute
	}
	if cfg.Schedule.CleanupInterval == 0 {
		cfg.Schedule.CleanupInterval = 24 * time.Hour
	}
	if cfg.Schedule.RetentionDays == 0 {
		cfg.Schedule.RetentionDays = 7
	}
	if cfg.Schedule.MaxWorkers == 0 {
		cfg.Schedule.MaxWorkers = 5
	}
	if cfg.Schedule.ScoreThreshold == nil {
		// absent in the file; an explicit 0 disables score filtering and is kept
		threshold := 0.3
		cfg.Schedule.ScoreThreshold = &threshold
	}
	if cfg.Schedule.DeliveryPause == 0 {
		cfg.Schedule.DeliveryPause = 500 * time.Millisecond
	}
	if cfg.Schedule.TopicPause == 0 {
		cfg.Schedule.TopicPause = 2 * time.Second
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}

	if *cfg.Schedule.ScoreThreshold < 0 || *cfg.Schedule.ScoreThreshold > 1 {
		return fmt.Errorf("schedule.score_threshold must be between 0 and 1")
	}
	if cfg.Schedule.RetentionDays < 1 {
		return fmt.Errorf("schedule.retention_days must be at least 1")
	}
	if cfg.Schedule.MaxWorkers < 1 {
		return fmt.Errorf("schedule.max_workers must be at least 1")
	}
	if cfg.Schedule.CheckInterval < time.Minute {
		return fmt.Errorf("schedule.check_interval must be at least 1 minute")
	}

	if cfg.News.MaxResults < 1 {
		return fmt.Errorf("news.max_results must be at least 1")
	}
	if cfg.News.Timeout < time.Second {
		return fmt.Errorf("news.timeout must be at least 1 second")
	}

	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetNewsConfig returns news provider configuration
func (c *Config) GetNewsConfig() NewsConfig {
	return c.News
}

// GetTelegramConfig returns telegram configuration
func (c *Config) GetTelegramConfig() TelegramConfig {
	return c.Telegram
}

// GetScheduleConfig returns scheduler configuration
func (c *Config) GetScheduleConfig() ScheduleConfig {
	return c.Schedule
}
