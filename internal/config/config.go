package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains runtime configuration values.
type Config struct {
	Environment          string
	HTTPPort             string
	ServiceName          string
	WeChatAppID          string
	WeChatSecret         string
	WeChatToken          string
	WeChatTemplateID     string
	ServerURL            string
	FrontendURL          string
	SessionSecret        string
	SessionTTL           time.Duration
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	RateLimitRPM         int
	MPVerifyFile         string
	MPVerifyContent      string
	TelemetryEndpoint    string
	TelemetryInsecure    bool
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
}

// Load reads configuration from environment variables with sane defaults.
// No value is re-read after startup.
func Load() (Config, error) {
	_ = godotenv.Load()

	appID := strings.TrimSpace(os.Getenv("WECHAT_APPID"))
	if appID == "" {
		return Config{}, fmt.Errorf("WECHAT_APPID is required")
	}
	secret := strings.TrimSpace(os.Getenv("WECHAT_SECRET"))
	if secret == "" {
		return Config{}, fmt.Errorf("WECHAT_SECRET is required")
	}
	token := strings.TrimSpace(os.Getenv("WECHAT_TOKEN"))
	if token == "" {
		return Config{}, fmt.Errorf("WECHAT_TOKEN is required")
	}

	cfg := Config{
		Environment:          getEnv("APP_ENV", "development"),
		HTTPPort:             getEnv("HTTP_PORT", "3001"),
		ServiceName:          getEnv("SERVICE_NAME", "wechat-booking"),
		WeChatAppID:          appID,
		WeChatSecret:         secret,
		WeChatToken:          token,
		WeChatTemplateID:     os.Getenv("WECHAT_TEMPLATE_GUEST"),
		ServerURL:            getEnv("SERVER_URL", "http://localhost:3001"),
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:3000"),
		SessionSecret:        getEnv("SESSION_SECRET", "wechat-poc-secret-key"),
		SessionTTL:           getDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:            getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getInt("REDIS_DB", 0),
		RateLimitRPM:         getInt("RATE_LIMIT_RPM", 600),
		MPVerifyFile:         strings.TrimSpace(os.Getenv("MP_VERIFY_FILE")),
		MPVerifyContent:      strings.TrimSpace(os.Getenv("MP_VERIFY_CONTENT")),
		TelemetryEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TelemetryInsecure:    getBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		CORSAllowedMethods:   getList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
		CORSAllowedHeaders:   getList("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type"}),
		CORSAllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", true),
	}

	return cfg, nil
}

// CallbackURL is the externally reachable OAuth callback address registered
// with the provider.
func (c Config) CallbackURL() string {
	return strings.TrimRight(c.ServerURL, "/") + "/api/wechat/callback"
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		var cleaned []string
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
