package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	AuthSecret   string
	TokenTTL     time.Duration
	AdminUser    string
	AdminPass    string
	PermTTL      time.Duration
	PermSnapshot string
	CacheTTL     time.Duration
	Hotels       []string
	PlanDays     int
	Workers      int
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ":9100"),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hostal?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		AuthSecret:   env("AUTH_SECRET", ""),
		TokenTTL:     time.Duration(atoi("TOKEN_TTL_MINUTES", 480)) * time.Minute,
		AdminUser:    env("ADMIN_USER", "admin"),
		AdminPass:    env("ADMIN_PASSWORD", ""),
		PermTTL:      time.Duration(atoi("PERM_TTL_SECONDS", 300)) * time.Second,
		PermSnapshot: env("PERM_SNAPSHOT_PATH", "permissions.json"),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		Hotels:       splitList(env("HOTELS", "centro,playa,mirador")),
		PlanDays:     atoi("PLAN_DAYS", 14),
		Workers:      atoi("PLAN_WORKERS", 4),
	}
	if c.AuthSecret == "" {
		log.Warn().Msg("AUTH_SECRET is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
