package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env       string
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	LLM       LLMConfig
	Wikipedia WikipediaConfig
	CacheTTLs CacheTTLConfig
	Batch     BatchConfig
	Logger    LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int
	AllowOrigins string
	RateLimit    RateLimitConfig
}

// RateLimitConfig bounds requests per client IP. Max <= 0 disables the limiter.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type DBConfig struct {
	Driver       string // "postgres" or "sqlite"
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	Path         string // sqlite database file
	MaxOpenConns int
	AutoMigrate  bool
}

// RedisConfig configures the optional read cache. An empty Address disables it.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LLMConfig struct {
	Provider    string // googleai, openai, anthropic, ollama
	Model       string
	APIKey      string
	ServerURL   string // ollama only
	Temperature float64
	JSONMode    bool
	Timeout     time.Duration
	MaxAttempts int
}

type WikipediaConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// CacheTTLConfig holds TTLs as duration strings such as "24h".
type CacheTTLConfig struct {
	Quiz    string
	Article string
}

// BatchConfig controls offline bulk generation.
type BatchConfig struct {
	Concurrency int
}

type LoggerConfig struct {
	Level string
	Env   string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 60*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.body_limit", 1*1024*1024)
	v.SetDefault("server.allow_origins", "*")
	v.SetDefault("server.rate_limit.max", 30)
	v.SetDefault("server.rate_limit.window", time.Minute)

	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "quiz_user")
	v.SetDefault("db.name", "wiki_quiz_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.path", "wiki_quiz.db")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.auto_migrate", true)

	v.SetDefault("redis.db", 0)

	v.SetDefault("llm.provider", "googleai")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.server_url", "http://localhost:11434")
	v.SetDefault("llm.temperature", 0.4)
	v.SetDefault("llm.json_mode", false)
	v.SetDefault("llm.timeout", 90*time.Second)
	v.SetDefault("llm.max_attempts", 1)

	v.SetDefault("wikipedia.timeout", 10*time.Second)
	v.SetDefault("wikipedia.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	v.SetDefault("cache_ttls.quiz", "24h")
	v.SetDefault("cache_ttls.article", "6h")

	v.SetDefault("batch.concurrency", 2)

	v.SetDefault("logger.level", "info")
}

// LoadConfig reads config.yaml (if present) and the environment.
// Nested keys map to upper-case env vars with dots replaced by underscores, e.g. DB_HOST, LLM_API_KEY.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env: v.GetString("env"),
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			IdleTimeout:  v.GetDuration("server.idle_timeout"),
			BodyLimit:    v.GetInt("server.body_limit"),
			AllowOrigins: v.GetString("server.allow_origins"),
			RateLimit: RateLimitConfig{
				Max:    v.GetInt("server.rate_limit.max"),
				Window: v.GetDuration("server.rate_limit.window"),
			},
		},
		DB: DBConfig{
			Driver:       strings.ToLower(v.GetString("db.driver")),
			Host:         v.GetString("db.host"),
			Port:         v.GetInt("db.port"),
			User:         v.GetString("db.user"),
			Password:     v.GetString("db.password"),
			DBName:       v.GetString("db.name"),
			SSLMode:      v.GetString("db.sslmode"),
			Path:         v.GetString("db.path"),
			MaxOpenConns: v.GetInt("db.max_open_conns"),
			AutoMigrate:  v.GetBool("db.auto_migrate"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(v.GetString("llm.provider")),
			Model:       v.GetString("llm.model"),
			APIKey:      v.GetString("llm.api_key"),
			ServerURL:   v.GetString("llm.server_url"),
			Temperature: v.GetFloat64("llm.temperature"),
			JSONMode:    v.GetBool("llm.json_mode"),
			Timeout:     v.GetDuration("llm.timeout"),
			MaxAttempts: v.GetInt("llm.max_attempts"),
		},
		Wikipedia: WikipediaConfig{
			Timeout:   v.GetDuration("wikipedia.timeout"),
			UserAgent: v.GetString("wikipedia.user_agent"),
		},
		CacheTTLs: CacheTTLConfig{
			Quiz:    v.GetString("cache_ttls.quiz"),
			Article: v.GetString("cache_ttls.article"),
		},
		Batch: BatchConfig{
			Concurrency: v.GetInt("batch.concurrency"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("env"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	switch c.LLM.Provider {
	case "googleai", "openai", "anthropic":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required for provider %q", c.LLM.Provider)
		}
	case "ollama":
	default:
		return fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider)
	}
	if c.LLM.MaxAttempts < 1 {
		c.LLM.MaxAttempts = 1
	}
	if c.Batch.Concurrency < 1 {
		c.Batch.Concurrency = 1
	}
	return nil
}

// GetDSN returns the data source name for the configured driver.
func (c *Config) GetDSN() string {
	if c.DB.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", c.DB.Path)
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DB.User, c.DB.Password),
		Host:   fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:   c.DB.DBName,
	}
	q := u.Query()
	q.Set("sslmode", c.DB.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// ParseTTLStringOrDefault parses a duration string, falling back to def on empty or invalid input.
func (c *Config) ParseTTLStringOrDefault(ttl string, def time.Duration) time.Duration {
	if ttl == "" {
		return def
	}
	d, err := time.ParseDuration(ttl)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
