package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	// Comma-separated dashboard origins allowed by CORS.
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`

	// ESG data store.
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	DatabaseName     string        `mapstructure:"DATABASE_NAME"`
	ProviderCacheTTL time.Duration `mapstructure:"PROVIDER_CACHE_TTL"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`

	// Assistant sessions.
	SessionStore       string        `mapstructure:"SESSION_STORE"`
	SessionTTL         time.Duration `mapstructure:"SESSION_TTL"`
	SessionIdleTimeout time.Duration `mapstructure:"SESSION_IDLE_TIMEOUT"`
	NavigationDelay    time.Duration `mapstructure:"NAVIGATION_DELAY"`
	SessionSecret      string        `mapstructure:"SESSION_ENCRYPTION_KEY"`

	// Language model.
	LLMProvider    string        `mapstructure:"LLM_PROVIDER"`
	GeminiAPIKey   string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel    string        `mapstructure:"GEMINI_MODEL"`
	LLMAPIURL      string        `mapstructure:"LLM_API_URL"`
	LLMAPIKey      string        `mapstructure:"LLM_API_KEY"`
	LLMModel       string        `mapstructure:"LLM_MODEL"`
	LLMTimeout     time.Duration `mapstructure:"LLM_TIMEOUT"`
	LLMTemperature float32       `mapstructure:"LLM_TEMPERATURE"`
	LLMTopP        float32       `mapstructure:"LLM_TOP_P"`
	LLMMaxTokens   int           `mapstructure:"LLM_MAX_TOKENS"`

	// Google speech-to-text for voice input.
	GoogleServiceAccountFile string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_FILE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"})

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_NAME", "waly")
	v.SetDefault("PROVIDER_CACHE_TTL", 30*time.Second)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_SESSION_DB", 0)

	v.SetDefault("SESSION_STORE", "memory")
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("SESSION_IDLE_TIMEOUT", 30*time.Minute)
	v.SetDefault("NAVIGATION_DELAY", time.Second)
	v.SetDefault("SESSION_ENCRYPTION_KEY", "")

	v.SetDefault("LLM_PROVIDER", "gemini")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("LLM_API_URL", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("LLM_API_KEY", "")
	v.SetDefault("LLM_MODEL", "gpt-4o-mini")
	v.SetDefault("LLM_TIMEOUT", 20*time.Second)
	v.SetDefault("LLM_TEMPERATURE", 0.7)
	v.SetDefault("LLM_TOP_P", 0.9)
	v.SetDefault("LLM_MAX_TOKENS", 500)

	v.SetDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// UsesRedisSessions reports whether assistant sessions are persisted in Redis.
func UsesRedisSessions() bool {
	return AppConfig.SessionStore == "redis"
}
