package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/iota-uz/utils/fs"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/railway-dispatch/pkg/logging"
)

const Production = "production"

const (
	RegistrationOrderRelationalFirst = "relational-first"
	RegistrationOrderDocumentFirst   = "document-first"
)

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

// LoadEnv loads the given env files from the working directory, falling back
// to the nearest directory holding go.mod when none are found there.
func LoadEnv(envFiles []string) (int, error) {
	existing := existingFiles("", envFiles)
	if len(existing) == 0 {
		if root, ok := findModuleRoot(); ok {
			existing = existingFiles(root, envFiles)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func existingFiles(dir string, envFiles []string) []string {
	out := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		path := file
		if dir != "" {
			path = filepath.Join(dir, file)
		}
		if fs.FileExists(path) {
			out = append(out, path)
		}
	}
	return out
}

func findModuleRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if fs.FileExists(filepath.Join(dir, "go.mod")) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"dispatch"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type RedisOptions struct {
	URL    string `env:"REDIS_URL" envDefault:"localhost:6379"`
	DB     int    `env:"REDIS_DB" envDefault:"0"`
	Prefix string `env:"REDIS_PREFIX" envDefault:"dispatch:identity"`
}

type TokenOptions struct {
	Secret          string        `env:"TOKEN_SECRET" envDefault:"dev-secret-change-me"`
	Issuer          string        `env:"TOKEN_ISSUER" envDefault:"railway-dispatch"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"12h"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type SagaOptions struct {
	// relational-first commits the work-poligon rows before the identity
	// document; document-first does the opposite.
	RegistrationOrder string `env:"SAGA_REGISTRATION_ORDER" envDefault:"relational-first"`
}

const (
	RateLimitStorageMemory = "memory"
	RateLimitStorageRedis  = "redis"
)

type RateLimitOptions struct {
	Enabled   bool   `env:"RATE_LIMIT_ENABLED" envDefault:"false"`
	GlobalRPS int    `env:"RATE_LIMIT_GLOBAL_RPS" envDefault:"100"`
	Storage   string `env:"RATE_LIMIT_STORAGE" envDefault:"memory"` // memory or redis
}

// Validate checks the rate limit configuration for errors
func (r *RateLimitOptions) Validate() error {
	if !r.Enabled {
		return nil
	}
	if r.GlobalRPS <= 0 {
		return fmt.Errorf("rate limit GlobalRPS must be positive, got %d", r.GlobalRPS)
	}
	if r.Storage == "" {
		r.Storage = RateLimitStorageMemory
	}
	if r.Storage != RateLimitStorageMemory && r.Storage != RateLimitStorageRedis {
		return fmt.Errorf("rate limit Storage must be 'memory' or 'redis', got '%s'", r.Storage)
	}
	return nil
}

type Configuration struct {
	Database   DatabaseOptions
	Redis      RedisOptions
	Token      TokenOptions
	Prometheus PrometheusOptions
	Saga       SagaOptions
	RateLimit  RateLimitOptions

	MigrationsDir    string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	ServerPort       int    `env:"PORT" envDefault:"3200"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress    string `env:"-"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string `env:"LOG_PATH" envDefault:"./logs/app.log"`
	AllowedOrigins   string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
	// Looked up on every request; a fresh uuid is generated when absent.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func (c *Configuration) Origins() []string {
	return strings.FieldsFunc(c.AllowedOrigins, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger

	c.Database.Opts = c.Database.ConnectionString()
	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}
	return nil
}

func (c *Configuration) Validate() error {
	order := strings.ToLower(strings.TrimSpace(c.Saga.RegistrationOrder))
	if order == "" {
		order = RegistrationOrderRelationalFirst
	}
	switch order {
	case RegistrationOrderRelationalFirst, RegistrationOrderDocumentFirst:
	default:
		return fmt.Errorf("invalid SAGA_REGISTRATION_ORDER=%q (expected %s|%s)",
			c.Saga.RegistrationOrder, RegistrationOrderRelationalFirst, RegistrationOrderDocumentFirst)
	}
	c.Saga.RegistrationOrder = order

	if c.Token.SessionDuration <= 0 {
		return fmt.Errorf("SESSION_DURATION must be positive, got %s", c.Token.SessionDuration)
	}
	if c.GoAppEnvironment == Production && strings.TrimSpace(c.Token.Secret) == "" {
		return fmt.Errorf("TOKEN_SECRET is required in production")
	}
	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("rate limit configuration error: %w", err)
	}
	return nil
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
