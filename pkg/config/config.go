package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "FUNDRAISER"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App      AppConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Password PasswordConfig
	Redis    RedisConfig
	Journal  JournalConfig
	Push     PushConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FUNDRAISER_APP_ENV" default:"development"`
	Port         string `envconfig:"FUNDRAISER_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"FUNDRAISER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FUNDRAISER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type JWTConfig struct {
	Secret            string `envconfig:"FUNDRAISER_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FUNDRAISER_JWT_ISSUER" default:"fundraiser-api"`
	ExpirationMinutes int    `envconfig:"FUNDRAISER_JWT_EXPIRATION_MINUTES" default:"720"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// AdminConfig describes the single shared admin identity. There are no
// per-admin accounts; one password gates the whole admin surface.
type AdminConfig struct {
	Password string `envconfig:"FUNDRAISER_ADMIN_PASSWORD" required:"true"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FUNDRAISER_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FUNDRAISER_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FUNDRAISER_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FUNDRAISER_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FUNDRAISER_ARGON_KEY_LEN" default:"32"`
}

// RedisConfig is optional; when URL is empty the admin session store runs
// in process memory.
type RedisConfig struct {
	URL          string        `envconfig:"FUNDRAISER_REDIS_URL"`
	PoolSize     int           `envconfig:"FUNDRAISER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FUNDRAISER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FUNDRAISER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FUNDRAISER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FUNDRAISER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

// JournalConfig controls the best-effort order audit journal. The journal
// is not authoritative state; the in-memory store is. Leaving DSN empty
// disables it.
type JournalConfig struct {
	Driver string `envconfig:"FUNDRAISER_JOURNAL_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"FUNDRAISER_JOURNAL_DSN"`
}

func (j JournalConfig) Enabled() bool {
	return strings.TrimSpace(j.DSN) != ""
}

type PushConfig struct {
	// SendQueueSize bounds the per-session outbound queue; a session that
	// falls this far behind is dropped rather than blocking publishers.
	SendQueueSize int           `envconfig:"FUNDRAISER_PUSH_SEND_QUEUE" default:"32"`
	WriteTimeout  time.Duration `envconfig:"FUNDRAISER_PUSH_WRITE_TIMEOUT" default:"10s"`
	PingInterval  time.Duration `envconfig:"FUNDRAISER_PUSH_PING_INTERVAL" default:"30s"`
}
