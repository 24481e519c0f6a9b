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
	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/utils/fs"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/uroojmurtaza-maker/oms-frontend/pkg/logging"
)

const Production = "production"

// ErrInvalid marks configuration that can never work. It is not retried.
var ErrInvalid = errors.New("invalid configuration")

var singleton = sync.OnceValues(func() (*Configuration, error) {
	return Load([]string{".env", ".env.local"})
})

// LoadEnv loads the env files that exist in the working directory. When none exist there,
// the directory holding go.mod (walking up from the working directory) is tried instead.
func LoadEnv(envFiles []string) (int, error) {
	existingFiles := existing("", envFiles)
	if len(existingFiles) == 0 {
		if root, ok := moduleRoot(); ok {
			existingFiles = existing(root, envFiles)
		}
	}
	if len(existingFiles) == 0 {
		return 0, nil
	}
	return len(existingFiles), godotenv.Load(existingFiles...)
}

func existing(dir string, envFiles []string) []string {
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

func moduleRoot() (string, bool) {
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

type APIOptions struct {
	BaseURL   string        `env:"API_BASE_URL" validate:"required,url"`
	Timeout   time.Duration `env:"API_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	LoginPath string        `env:"LOGIN_PATH" envDefault:"/users/login" validate:"required,startswith=/"`
}

type ListingOptions struct {
	PageSize       int           `env:"PAGE_SIZE" envDefault:"10" validate:"min=1,max=100"`
	SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"500ms" validate:"gte=0"`
}

type SessionOptions struct {
	Store    string `env:"SESSION_STORE" envDefault:"file"`
	File     string `env:"SESSION_FILE" envDefault:".oms/session.json"`
	RedisURL string `env:"REDIS_URL" envDefault:"localhost:6379"`
	Key      string `env:"SESSION_KEY" envDefault:"oms:session"`
}

type OpenTelemetryOptions struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	TempoURL    string `env:"OTEL_TEMPO_URL" envDefault:"localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"oms-admin"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Addr    string `env:"PROMETHEUS_METRICS_ADDR" envDefault:"localhost:9464"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type Configuration struct {
	API           APIOptions
	Listing       ListingOptions
	Session       SessionOptions
	OpenTelemetry OpenTelemetryOptions
	Prometheus    PrometheusOptions

	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	// Empty means console only.
	LogPath string `env:"LOG_PATH"`
	// Sent with every API call; a fresh uuid v4 per request.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`

	logFile *os.File
	logger  *logrus.Logger
}

// Use returns the process-wide configuration loaded from .env and .env.local.
func Use() (*Configuration, error) {
	return singleton()
}

// Load parses the environment (after loading envFiles) into a fresh Configuration.
func Load(envFiles []string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	return logging.LogrusLevel(c.LogLevel)
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 && c.GoAppEnvironment != Production {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return errors.Wrap(err, "parse environment")
	}
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")

	if err := c.validate(); err != nil {
		return err
	}

	if c.LogPath == "" {
		c.logger = logging.ConsoleLogger(c.LogrusLogLevel())
		return nil
	}
	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger
	return nil
}

func (c *Configuration) validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}
	return c.validateSession()
}

func (c *Configuration) validateSession() error {
	mode := strings.ToLower(strings.TrimSpace(c.Session.Store))
	if mode == "" {
		mode = "file"
	}
	switch mode {
	case "file":
		if strings.TrimSpace(c.Session.File) == "" {
			return fmt.Errorf("%w: SESSION_STORE=file requires SESSION_FILE", ErrInvalid)
		}
	case "redis":
		if strings.TrimSpace(c.Session.RedisURL) == "" {
			return fmt.Errorf("%w: SESSION_STORE=redis requires REDIS_URL", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: invalid SESSION_STORE=%q (expected file|redis)", ErrInvalid, c.Session.Store)
	}
	c.Session.Store = mode
	return nil
}

// Unload closes the log file, if any.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
