package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	OpentechBase  string
	OpentechKey   string
	OpentechRPS   int
	Workers       int
	SubmissionIDs []int64
	CacheTTL      time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/review_block?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		OpentechBase:  strings.TrimRight(env("OPENTECH_BASE_URL", "http://localhost:8000/api/v1"), "/"),
		OpentechKey:   env("OPENTECH_API_KEY", ""),
		OpentechRPS:   atoi("OPENTECH_RPS", 5),
		Workers:       atoi("INGEST_WORKERS", 8),
		SubmissionIDs: parseIDs(os.Getenv("INGEST_SUBMISSION_IDS")),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return c
}

// parseIDs reads a comma/space separated id list, skipping anything non-numeric.
func parseIDs(s string) []int64 {
	var out []int64
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\n' }) {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil || n <= 0 {
			log.Warn().Str("value", f).Msg("skipping invalid submission id")
			continue
		}
		out = append(out, n)
	}
	return out
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
