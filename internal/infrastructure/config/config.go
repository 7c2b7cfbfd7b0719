package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	SessionJWT   = "jwt"
	SessionRedis = "redis"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Mongo    MongoConfig
	Postgres PostgresConfig
	SQLite   SQLiteConfig
	Redis    RedisConfig
	Session  SessionConfig
	Security SecurityConfig
	Admin    AdminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=admin_dashboard"`
}

type PostgresConfig struct {
	URL string `env:"POSTGRES_URL"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=dashboard.db"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type SessionConfig struct {
	Provider  string        `env:"SESSION_PROVIDER, default=jwt"`
	JWTSecret string        `env:"JWT_SECRET"`
	TTL       time.Duration `env:"SESSION_TTL,      default=24h"`
}

type SecurityConfig struct {
	BcryptCost int `env:"BCRYPT_COST,  default=12"`
	// HashWorkers <= 0 means one worker per CPU.
	HashWorkers int `env:"HASH_WORKERS, default=0"`
	// AllowSelfAssignedRole lets /register callers pick ADMIN.
	AllowSelfAssignedRole bool `env:"REGISTRATION_ALLOW_ROLE, default=true"`
}

type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL,    default=admin@example.com"`
	Password string `env:"ADMIN_PASSWORD"`
	Name     string `env:"ADMIN_NAME,     default=Admin User"`
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreSQLite:
	case StorePostgres:
		if c.Postgres.URL == "" {
			return errors.New("config: POSTGRES_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}

	// JWT_SECRET is enforced by session.NewJWTProvider.
	switch c.Session.Provider {
	case SessionJWT, SessionRedis:
	default:
		return fmt.Errorf("config: unknown SESSION_PROVIDER %q", c.Session.Provider)
	}

	if c.Session.TTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
