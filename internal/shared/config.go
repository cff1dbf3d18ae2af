package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	MySQLDSN        string // empty disables the telemetry sink
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	PMSBase         string
	PMSKey          string
	PMSRPS          int
	DefaultCurrency string
	SessionTTL      time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ":9100"),
		MySQLDSN:        env("MYSQL_DSN", ""),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		PMSBase:         env("PMS_BASE_URL", "https://pms.example.com/api"),
		PMSKey:          env("PMS_API_KEY", ""),
		PMSRPS:          atoi("PMS_RPS", 5),
		DefaultCurrency: env("DEFAULT_CURRENCY", "USD"),
		SessionTTL:      time.Duration(atoi("SESSION_TTL_SECONDS", 1800)) * time.Second,
	}
	if c.PMSKey == "" {
		log.Warn().Msg("PMS_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
