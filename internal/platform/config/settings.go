package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings is the full service configuration.
type Settings struct {
	Application ApplicationSettings `yaml:"application"`
	Database    DatabaseSettings    `yaml:"database"`
	Storage     StorageSettings     `yaml:"storage"`
	Email       EmailSettings       `yaml:"email_client"`
	Log         LogSettings         `yaml:"log"`
}

type ApplicationSettings struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	// AllowedOrigins enables CORS for browser forms hosted elsewhere; empty disables CORS.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Address returns host:port for net.Listen.
func (a ApplicationSettings) Address() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// DatabaseSettings describes the Postgres instance used by the "postgres" storage backend.
// URL, when set (usually via DATABASE_URL), takes precedence over the discrete fields.
type DatabaseSettings struct {
	URL          string `yaml:"url"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	DatabaseName string `yaml:"database_name"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxConns     int32  `yaml:"max_conns"`
}

// ConnectionString returns a postgres:// URL for the configured database.
func (d DatabaseSettings) ConnectionString() string {
	if d.URL != "" {
		return d.URL
	}
	u := d.baseURL()
	u.Path = "/" + d.DatabaseName
	return u.String()
}

// ConnectionStringWithoutDB points at the server's default database; used to create
// throwaway databases in tests.
func (d DatabaseSettings) ConnectionStringWithoutDB() string {
	if d.URL != "" {
		u, err := url.Parse(d.URL)
		if err != nil {
			return d.URL
		}
		u.Path = "/postgres"
		return u.String()
	}
	u := d.baseURL()
	u.Path = "/postgres"
	return u.String()
}

func (d DatabaseSettings) baseURL() *url.URL {
	q := url.Values{}
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}
	return &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		RawQuery: q.Encode(),
	}
}

// StorageSettings selects the subscription store.
//
//   - memory: in-process maps (default; data is lost on restart)
//   - postgres: pgx pool built from Database
//   - sql: database/sql with Driver (postgres|mysql|sqlite3) and DSN
type StorageSettings struct {
	Backend string `yaml:"backend"`
	Driver  string `yaml:"driver"`
	DSN     string `yaml:"dsn"`
}

// EmailSettings configures the SMTP dispatcher. Dispatch is disabled when Host is empty.
type EmailSettings struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	UseStartTLS bool          `yaml:"use_starttls"`
	Sender      string        `yaml:"sender"`
	Timeout     time.Duration `yaml:"timeout"`
	// MaxConcurrentSends bounds the blocking pool that runs SMTP exchanges.
	MaxConcurrentSends int `yaml:"max_concurrent_sends"`
}

func (e EmailSettings) Enabled() bool { return strings.TrimSpace(e.Host) != "" }

type LogSettings struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
}

// Load reads a YAML settings file and applies defaults. It does not consult the environment.
func Load(path string) (*Settings, error) {
	s, err := readFile(path)
	if err != nil {
		return nil, err
	}
	s.applyDefaults()
	return s, nil
}

// readFile parses the YAML file at path without applying defaults.
func readFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &s, nil
}

// LoadFromEnv loads .env (if present), then the YAML file at path (skipped when path is
// empty), then environment overrides, and validates the result.
func LoadFromEnv(path string) (*Settings, error) {
	_ = godotenv.Load()

	s := &Settings{}
	if path != "" {
		loaded, err := readFile(path)
		if err != nil {
			return nil, err
		}
		s = loaded
	}
	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

func (s *Settings) applyDefaults() {
	if s.Application.Host == "" {
		s.Application.Host = "0.0.0.0"
	}
	if s.Application.Port == 0 {
		s.Application.Port = 8080
	}
	if s.Application.ReadHeaderTimeout == 0 {
		s.Application.ReadHeaderTimeout = 5 * time.Second
	}
	if s.Application.ShutdownTimeout == 0 {
		s.Application.ShutdownTimeout = 10 * time.Second
	}
	if s.Database.Port == 0 {
		s.Database.Port = 5432
	}
	if s.Database.SSLMode == "" {
		s.Database.SSLMode = "disable"
	}
	if s.Storage.Backend == "" {
		s.Storage.Backend = "memory"
	}
	if s.Email.Port == 0 {
		if s.Email.UseStartTLS {
			s.Email.Port = 587
		} else {
			s.Email.Port = 465
		}
	}
	if s.Email.Timeout == 0 {
		s.Email.Timeout = 15 * time.Second
	}
	if s.Email.MaxConcurrentSends == 0 {
		s.Email.MaxConcurrentSends = 8
	}
	if s.Log.Mode == "" {
		s.Log.Mode = "development"
	}
	if s.Log.Level == "" {
		s.Log.Level = "info"
	}
}

func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Application),
		validation.Field(&s.Storage),
		validation.Field(&s.Email),
	)
}

func (a ApplicationSettings) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Port, validation.Min(0), validation.Max(65535)),
	)
}

func (st StorageSettings) Validate() error {
	isSQL := st.Backend == "sql"
	return validation.ValidateStruct(&st,
		validation.Field(&st.Backend, validation.Required, validation.In("memory", "postgres", "sql")),
		validation.Field(&st.Driver, validation.When(isSQL, validation.Required, validation.In("postgres", "mysql", "sqlite3"))),
		validation.Field(&st.DSN, validation.When(isSQL, validation.Required)),
	)
}

func (e EmailSettings) Validate() error {
	on := e.Enabled()
	return validation.ValidateStruct(&e,
		validation.Field(&e.Host, validation.When(on, is.Host)),
		validation.Field(&e.Port, validation.When(on, validation.Required, validation.Min(1), validation.Max(65535))),
		validation.Field(&e.Sender, validation.When(on, validation.Required, is.EmailFormat)),
		validation.Field(&e.MaxConcurrentSends, validation.Min(1)),
	)
}
