package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Env struct {
	AppAddr   string
	GinMode   string
	LogLevel  string
	LogFormat string

	DBDSN         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration
	FleetCacheTTL time.Duration

	BookingEndpointURL string
	BookingTimeout     time.Duration
	PaymentLinkBaseURL string

	JWTSecret          string
	CORSAllowedOrigins []string
	QuoteRatePerMin    int
	BookingRatePerMin  int
	LoginRatePerMin    int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("DB_DSN", "root:@tcp(127.0.0.1:3306)/wakacjecypr?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("FLEET_CACHE_TTL", "5m")
	v.SetDefault("BOOKING_ENDPOINT_URL", "")
	v.SetDefault("BOOKING_TIMEOUT", "15s")
	v.SetDefault("PAYMENT_LINK_BASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("QUOTE_RATE_PER_MIN", 120)
	v.SetDefault("BOOKING_RATE_PER_MIN", 30)
	v.SetDefault("LOGIN_RATE_PER_MIN", 10)
}

// LoadEnv reads the environment, plus config.yaml from . or ./config when present.
func LoadEnv() Env {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)
	_ = v.ReadInConfig()
	return envFrom(v)
}

func envFrom(v *viper.Viper) Env {
	return Env{
		AppAddr:            strings.TrimSpace(v.GetString("APP_ADDR")),
		GinMode:            strings.TrimSpace(v.GetString("GIN_MODE")),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		DBDSN:              strings.TrimSpace(v.GetString("DB_DSN")),
		RedisAddr:          strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		SessionTTL:         positive(v.GetDuration("SESSION_TTL"), 2*time.Hour),
		FleetCacheTTL:      v.GetDuration("FLEET_CACHE_TTL"),
		BookingEndpointURL: strings.TrimSpace(v.GetString("BOOKING_ENDPOINT_URL")),
		BookingTimeout:     positive(v.GetDuration("BOOKING_TIMEOUT"), 15*time.Second),
		PaymentLinkBaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("PAYMENT_LINK_BASE_URL")), "/"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		QuoteRatePerMin:    v.GetInt("QUOTE_RATE_PER_MIN"),
		BookingRatePerMin:  v.GetInt("BOOKING_RATE_PER_MIN"),
		LoginRatePerMin:    v.GetInt("LOGIN_RATE_PER_MIN"),
	}
}

func positive(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
