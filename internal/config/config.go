package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the complete service configuration.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Redis       RedisConfig       `toml:"redis"`
	Minio       MinioConfig       `toml:"minio"`
	SMTP        SMTPConfig        `toml:"smtp"`
	Sync        SyncConfig        `toml:"sync"`
	TradeMaster TradeMasterConfig `toml:"trademaster"`
}

// ServerConfig contains the HTTP listener settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DatabaseConfig contains the Postgres connection settings.
type DatabaseConfig struct {
	URL string `toml:"url"`
}

// RedisConfig contains Redis connection settings shared by the cache and the
// task queue.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MinioConfig contains the object storage settings for cached vendor images.
type MinioConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
}

// SMTPConfig contains the outgoing mail settings.
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// SyncConfig contains scheduling and pagination settings for catalog passes.
type SyncConfig struct {
	IntervalMinutes int `toml:"interval_minutes"`
	PageSize        int `toml:"page_size"`
	OrderBatch      int `toml:"order_batch"`
}

// TradeMasterConfig contains the vendor API credentials and the per-account
// identifiers the vendor requires on order submission.
type TradeMasterConfig struct {
	Host        string `toml:"host"`
	Version     string `toml:"version"`
	APIKey      string `toml:"api_key"`
	Currency    string `toml:"currency"`
	CacheHost   string `toml:"cache_host"`
	CacheFolder string `toml:"cache_folder"`

	Storage    int `toml:"storage"`
	Legal      int `toml:"legal"`
	Checkout   int `toml:"checkout"`
	Contractor int `toml:"contractor"`
	Scheme     int `toml:"scheme"`
	UserID     int `toml:"user_id"`

	AutoGenerateAddress bool   `toml:"auto_generate_address"`
	FileCaching         bool   `toml:"file_caching"`
	AutoUpdate          bool   `toml:"auto_update"`
	ClientMailTemplate  string `toml:"client_mail_template"`
	CategoryTemplate    string `toml:"category_template"`
	ProductTemplate     string `toml:"product_template"`
	CategoryPagination  int    `toml:"category_pagination"`
}

// Load reads the TOML configuration file and applies environment overrides
// for values that usually come from the deployment, not the file.
func Load(filename string) (*Config, error) {
	cfg := defaults()
	if _, err := toml.DecodeFile(filename, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Redis:  RedisConfig{Addr: "localhost:6379"},
		Minio:  MinioConfig{Endpoint: "localhost:9000", Bucket: "catalog-images"},
		SMTP:   SMTPConfig{Port: 25},
		Sync: SyncConfig{
			IntervalMinutes: 30,
			PageSize:        250,
			OrderBatch:      5,
		},
		TradeMaster: TradeMasterConfig{
			Host:               "https://api.trademaster.pro",
			Version:            "2",
			Currency:           "RUB",
			CacheHost:          "https://trademaster.pro",
			CategoryPagination: 10,
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Minio.SecretKey = v
	}
	if v := os.Getenv("TRADEMASTER_API_KEY"); v != "" {
		c.TradeMaster.APIKey = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required (config [database].url or DATABASE_URL)")
	}
	if c.TradeMaster.APIKey == "" {
		return fmt.Errorf("vendor api key is required (config [trademaster].api_key or TRADEMASTER_API_KEY)")
	}
	if c.Sync.PageSize <= 0 {
		return fmt.Errorf("sync page size must be positive, got %d", c.Sync.PageSize)
	}
	return nil
}
