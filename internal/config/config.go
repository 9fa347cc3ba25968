package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Upstream     UpstreamConfig  `mapstructure:"upstream"`
	Fetch        FetchConfig     `mapstructure:"fetch"`
	Sync         SyncConfig      `mapstructure:"sync"`
	Scheduler    SchedulerConfig `mapstructure:"scheduler"`
	Server       ServerConfig    `mapstructure:"server"`
	StateStorage StateStorage    `mapstructure:"state_storage"`
	Logging      LoggingConfig   `mapstructure:"logging"`
}

type UpstreamConfig struct {
	BillsBaseURL   string `mapstructure:"bills_base_url"`
	MembersBaseURL string `mapstructure:"members_base_url"`
	PageSize       int    `mapstructure:"page_size"`
}

type FetchConfig struct {
	RateLimit    int    `mapstructure:"rate_limit"`
	RateInterval string `mapstructure:"rate_interval"`
	MaxRetries   int    `mapstructure:"max_retries"`
	BackoffBase  string `mapstructure:"backoff_base"`
}

func (f FetchConfig) GetRateInterval() time.Duration {
	d, _ := time.ParseDuration(f.RateInterval)
	return d
}

func (f FetchConfig) GetBackoffBase() time.Duration {
	d, _ := time.ParseDuration(f.BackoffBase)
	return d
}

type SyncConfig struct {
	BillPacing string `mapstructure:"bill_pacing"`
}

func (s SyncConfig) GetBillPacing() time.Duration {
	d, _ := time.ParseDuration(s.BillPacing)
	return d
}

type SchedulerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Interval string `mapstructure:"interval"`
}

type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	Host         string   `mapstructure:"host"`
	AuthToken    string   `mapstructure:"auth_token"`
	ReadTimeout  string   `mapstructure:"read_timeout"`
	WriteTimeout string   `mapstructure:"write_timeout"`
	CorsOrigins  []string `mapstructure:"cors_origins"`
}

func (s ServerConfig) GetReadTimeout() time.Duration {
	d, _ := time.ParseDuration(s.ReadTimeout)
	return d
}

func (s ServerConfig) GetWriteTimeout() time.Duration {
	d, _ := time.ParseDuration(s.WriteTimeout)
	return d
}

type StateStorage struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("upstream.bills_base_url", "https://bills-api.parliament.uk/api/v1")
	v.SetDefault("upstream.members_base_url", "https://members-api.parliament.uk/api")
	v.SetDefault("upstream.page_size", 50)
	v.SetDefault("fetch.rate_limit", 5)
	v.SetDefault("fetch.rate_interval", "1s")
	v.SetDefault("fetch.max_retries", 5)
	v.SetDefault("fetch.backoff_base", "1s")
	v.SetDefault("sync.bill_pacing", "100ms")
	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.interval", "@hourly")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
