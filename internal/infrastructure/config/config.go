package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Forkify     ForkifyConfig   `mapstructure:"forkify"`
	Recipe      RecipeConfig    `mapstructure:"recipe"`
	Search      SearchConfig    `mapstructure:"search"`
	Likes       LikesConfig     `mapstructure:"likes"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Cache       CacheConfig     `mapstructure:"cache"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
	LogFile     string          `mapstructure:"log_file"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxBodySize  int64         `mapstructure:"max_body_size"`
}

// ForkifyConfig 遠端食譜 API 配置
type ForkifyConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryCount int           `mapstructure:"retry_count"`
}

// RecipeConfig 食譜推算預設值
type RecipeConfig struct {
	DefaultServings      int `mapstructure:"default_servings"`
	MinutesPerIngredient int `mapstructure:"minutes_per_ingredient"`
}

// SearchConfig 搜尋結果分頁設定
type SearchConfig struct {
	PageSize   int `mapstructure:"page_size"`
	TitleLimit int `mapstructure:"title_limit"`
}

// LikesConfig 收藏儲存設定
type LikesConfig struct {
	Backend  string `mapstructure:"backend"` // memory, redis, file
	Key      string `mapstructure:"key"`
	FilePath string `mapstructure:"file_path"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 為選用
	_ = godotenv.Load()

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	_ = viper.BindEnv("forkify.base_url", "FORKIFY_BASE_URL")
	_ = viper.BindEnv("forkify.timeout", "FORKIFY_TIMEOUT")
	_ = viper.BindEnv("likes.backend", "LIKES_BACKEND")
	_ = viper.BindEnv("likes.file_path", "LIKES_FILE")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	_ = viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = viper.BindEnv("log_level", "LOG_LEVEL")
	_ = viper.BindEnv("log_file", "LOG_FILE")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "recipe-finder")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.max_body_size", 1<<20) // 1MB

	// 遠端 API 設定
	viper.SetDefault("forkify.base_url", "https://forkify-api.herokuapp.com/api")
	viper.SetDefault("forkify.timeout", "10s")
	viper.SetDefault("forkify.retry_count", 1)

	// 食譜推算
	viper.SetDefault("recipe.default_servings", 4)
	viper.SetDefault("recipe.minutes_per_ingredient", 15)

	// 搜尋分頁
	viper.SetDefault("search.page_size", 10)
	viper.SetDefault("search.title_limit", 17)

	// 收藏儲存
	viper.SetDefault("likes.backend", "file")
	viper.SetDefault("likes.key", "likes")
	viper.SetDefault("likes.file_path", "data/likes.json")

	// Redis
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	// 快取設定
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size", 500)
	viper.SetDefault("cache.ttl", "1h")
	viper.SetDefault("cache.cleanup_interval", "10m")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	viper.SetDefault("dedup_window", "1s")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_file", "logs/app.log")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.Forkify.BaseURL == "" {
		return fmt.Errorf("forkify base url is required")
	}
	if config.Forkify.Timeout <= 0 {
		return fmt.Errorf("invalid forkify timeout")
	}

	if config.Recipe.DefaultServings < 1 {
		return fmt.Errorf("invalid default servings")
	}
	if config.Recipe.MinutesPerIngredient < 0 {
		return fmt.Errorf("invalid minutes per ingredient")
	}
	if config.Search.PageSize <= 0 {
		return fmt.Errorf("invalid search page size")
	}

	switch config.Likes.Backend {
	case "memory", "redis":
	case "file":
		if config.Likes.FilePath == "" {
			return fmt.Errorf("likes file path is required for file backend")
		}
	default:
		return fmt.Errorf("unknown likes backend %q", config.Likes.Backend)
	}
	if config.Likes.Key == "" {
		return fmt.Errorf("likes key is required")
	}

	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit")
		}
	}

	return nil
}
