package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Pairs []string `yaml:"pairs"`

	DataSource struct {
		BaseURL    string `yaml:"base_url"`
		APIKey     string `yaml:"api_key"`
		Interval   string `yaml:"interval"`
		OutputSize int    `yaml:"output_size"`
	} `yaml:"data_source"`

	Indicators struct {
		SRWindow int `yaml:"sr_window"` // support/resistance window, 10 or 20
	} `yaml:"indicators"`

	Alerts struct {
		CooldownMinutes int  `yaml:"cooldown_minutes"`
		ScrapeContext   bool `yaml:"scrape_context"` // TradingView/ForexFactory lookups
	} `yaml:"alerts"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Name     string `yaml:"name"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		SSLMode  string `yaml:"ssl_mode"`
	} `yaml:"database"`

	Sheets struct {
		SpreadsheetID string `yaml:"spreadsheet_id"`
		Range         string `yaml:"range"`
		Token         string `yaml:"token"`
	} `yaml:"sheets"`

	ThrottleStore struct {
		Driver        string `yaml:"driver"` // memory, file, sqlite, redis
		FilePath      string `yaml:"file_path"`
		SQLitePath    string `yaml:"sqlite_path"`
		RedisAddr     string `yaml:"redis_addr"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       int    `yaml:"redis_db"`
	} `yaml:"throttle_store"`

	Schedule struct {
		Cron              string `yaml:"cron"`
		RunTimeoutMinutes int    `yaml:"run_timeout_minutes"`
	} `yaml:"schedule"`

	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Alerts.ScrapeContext = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("TWELVE_DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("PG_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("PG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("PG_DB"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("PG_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("PG_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("GOOGLE_SHEET_ID"); v != "" {
		cfg.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("GOOGLE_SHEETS_TOKEN"); v != "" {
		cfg.Sheets.Token = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.ThrottleStore.RedisAddr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.ThrottleStore.SQLitePath = v
	}
	if v := os.Getenv("CRON_RUN"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if len(cfg.Pairs) == 0 {
		cfg.Pairs = []string{"EUR/USD", "GBP/USD", "USD/JPY"}
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "15min"
	}
	if cfg.DataSource.OutputSize == 0 {
		cfg.DataSource.OutputSize = 50
	}
	if cfg.Indicators.SRWindow == 0 {
		cfg.Indicators.SRWindow = 10
	}
	if cfg.Alerts.CooldownMinutes == 0 {
		cfg.Alerts.CooldownMinutes = 60
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.ThrottleStore.Driver == "" {
		cfg.ThrottleStore.Driver = "file"
	}
	if cfg.ThrottleStore.FilePath == "" {
		cfg.ThrottleStore.FilePath = "data/throttle_state.json"
	}
	if cfg.ThrottleStore.SQLitePath == "" {
		cfg.ThrottleStore.SQLitePath = "data/forexpulse.db"
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 */15 * * * *"
	}
	if cfg.Schedule.RunTimeoutMinutes == 0 {
		cfg.Schedule.RunTimeoutMinutes = 5
	}

	return cfg, nil
}

// PostgresDSN builds the connection string for the database sink. Empty when
// no host is configured.
func (c *Config) PostgresDSN() string {
	if c.Database.Host == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.Name, c.Database.SSLMode)
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.DataSource.APIKey == "" {
		return fmt.Errorf("data_source.api_key is required")
	}
	if w := c.Indicators.SRWindow; w != 10 && w != 20 {
		return fmt.Errorf("indicators.sr_window must be 10 or 20, got %d", w)
	}
	if c.DataSource.OutputSize < 2 {
		return fmt.Errorf("data_source.output_size must be at least 2")
	}
	switch c.ThrottleStore.Driver {
	case "memory", "file", "sqlite", "redis":
	default:
		return fmt.Errorf("throttle_store.driver must be one of memory, file, sqlite, redis")
	}
	return nil
}
