package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the car chooser service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Ranking   RankingConfig   `mapstructure:"ranking"`
	Assistant AssistantConfig `mapstructure:"assistant"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Listen   string `mapstructure:"listen"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// StorageConfig contains storage and persistence settings
type StorageConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains Postgres connection settings
type PostgresConfig struct {
	URL      string        `mapstructure:"url"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	DBName   string        `mapstructure:"dbname"`
	SSLMode  string        `mapstructure:"sslmode"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (p PostgresConfig) Validate() error {
	if strings.TrimSpace(p.URL) != "" {
		return nil
	}
	if strings.TrimSpace(p.Host) == "" {
		return fmt.Errorf("storage.postgres.host required when url is not provided")
	}
	if strings.TrimSpace(p.DBName) == "" {
		return fmt.Errorf("storage.postgres.dbname required when url is not provided")
	}
	return nil
}

// DSN builds a postgres connection string from the configured fields.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl)
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("storage.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

// IngestConfig controls CSV seeding and periodic refresh.
type IngestConfig struct {
	CSVPath     string `mapstructure:"csv_path"`
	Limit       int    `mapstructure:"limit"`
	RefreshCron string `mapstructure:"refresh_cron"`
	SeedOnStart bool   `mapstructure:"seed_on_start"`
}

func (i IngestConfig) Validate() error {
	if strings.TrimSpace(i.CSVPath) == "" {
		return fmt.Errorf("ingest.csv_path is required")
	}
	return nil
}

// RankingConfig tunes the scoring and ranking engine.
type RankingConfig struct {
	// Intensity 0..10 drives both the weight exponent and the fitness
	// sharpening exponent via factor = 1 + 0.5*intensity.
	Intensity float64 `mapstructure:"intensity"`
	// Strategy selects the form-search scoring variant: "calibrated"
	// (set-relative min-max) or "threshold" (absolute user limits).
	Strategy       string             `mapstructure:"strategy"`
	DefaultWeights map[string]float64 `mapstructure:"default_weights"`
	DedupPolicy    string             `mapstructure:"dedup_policy"`
	ResultLimit    int                `mapstructure:"result_limit"`
	TopLimit       int                `mapstructure:"top_limit"`
	CurrentYear    int                `mapstructure:"current_year"`
}

// Normalize applies defaults for unset ranking values.
func (r RankingConfig) Normalize() RankingConfig {
	if r.Intensity < 0 {
		r.Intensity = 0
	}
	if r.Intensity > 10 {
		r.Intensity = 10
	}
	if r.Strategy == "" {
		r.Strategy = "calibrated"
	}
	if len(r.DefaultWeights) == 0 {
		r.DefaultWeights = map[string]float64{"price": 3, "mileage": 7, "year": 2, "power": 1}
	}
	if r.DedupPolicy == "" {
		r.DedupPolicy = "composite"
	}
	if r.ResultLimit <= 0 {
		r.ResultLimit = 50
	}
	if r.TopLimit <= 0 {
		r.TopLimit = 5
	}
	if r.CurrentYear <= 0 {
		r.CurrentYear = time.Now().Year()
	}
	return r
}

func (r RankingConfig) Validate() error {
	switch r.DedupPolicy {
	case "", "link", "composite":
	default:
		return fmt.Errorf("ranking.dedup_policy must be \"link\" or \"composite\"")
	}
	switch r.Strategy {
	case "", "calibrated", "threshold":
	default:
		return fmt.Errorf("ranking.strategy must be \"calibrated\" or \"threshold\"")
	}
	return nil
}

// Factor converts the intensity level into the ALPHA/TAU exponent.
func (r RankingConfig) Factor() float64 {
	return 1 + 0.5*r.Intensity
}

// AssistantConfig controls the conversational assistant.
type AssistantConfig struct {
	SessionStore string        `mapstructure:"session_store"` // inmemory or redis
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	ResultLimit  int           `mapstructure:"result_limit"`
}

func (a AssistantConfig) Normalize() AssistantConfig {
	if a.SessionStore == "" {
		a.SessionStore = "inmemory"
	}
	if a.SessionTTL <= 0 {
		a.SessionTTL = 30 * time.Minute
	}
	if a.ResultLimit <= 0 {
		a.ResultLimit = 5
	}
	return a
}

func (a AssistantConfig) Validate() error {
	switch a.SessionStore {
	case "", "inmemory", "redis":
	default:
		return fmt.Errorf("assistant.session_store must be \"inmemory\" or \"redis\"")
	}
	return nil
}

// LoadConfig loads config from file
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.SetDefault("general.listen", ":8080")
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("ranking.intensity", 4)
	viper.SetDefault("ingest.seed_on_start", true)
	viper.SetDefault("assistant.session_store", "inmemory")

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
		viper.AddConfigPath(filepath.Join(exeDir, "..", "config"))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("CARSCOUT")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv() // read in environment variables that match (CARSCOUT_*)

	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	var config Config
	if err = viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	config.Ranking = config.Ranking.Normalize()
	config.Assistant = config.Assistant.Normalize()

	if err := config.Storage.Postgres.Validate(); err != nil {
		panic(err)
	}
	if err := config.Ingest.Validate(); err != nil {
		panic(err)
	}
	if err := config.Ranking.Validate(); err != nil {
		panic(err)
	}
	if err := config.Assistant.Validate(); err != nil {
		panic(err)
	}
	if config.Assistant.SessionStore == "redis" {
		if err := config.Storage.Redis.Validate(); err != nil {
			panic(err)
		}
	}
	return &config
}
