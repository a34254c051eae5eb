package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	_ "time/tzdata"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Base is what every binary needs: the database and how to render checklists
type Base struct {
	Env         string `env:"APP_ENV,default=development"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	TimeZone    string `env:"TIMEZONE,default=America/Sao_Paulo"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	ReceiptWidth int `env:"RECEIPT_WIDTH,default=48"`
	RowsPerPage  int `env:"DOCUMENT_ROWS_PER_PAGE,default=30"`
}

// Config is the API server configuration
type Config struct {
	Base

	Port      int    `env:"PORT,default=8000"`
	JWTSecret string `env:"JWT_SECRET,required"`

	CORSOrigins string `env:"CORS_ORIGINS"`

	// open checklist views older than this are dropped
	SessionTTL time.Duration `env:"CHECKLIST_SESSION_TTL,default=12h"`

	R2 R2
}

// R2 is optional as a whole; exports are not archived without it
type R2 struct {
	Endpoint      string `env:"R2_ENDPOINT"`
	AccessKey     string `env:"R2_ACCESS_KEY"`
	SecretKey     string `env:"R2_SECRET_KEY"`
	Bucket        string `env:"R2_BUCKET_NAME"`
	PublicBaseURL string `env:"R2_PUBLIC_BASE_URL"`
}

func (r R2) Enabled() bool {
	return r.Endpoint != "" || r.AccessKey != "" || r.SecretKey != "" || r.Bucket != ""
}

// Load reads .env outside production, then decodes the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadBase is Load for tools that neither serve HTTP nor check tokens
func LoadBase() (*Base, error) {
	var cfg Base
	if err := decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(target interface{}) error {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	if err := envdecode.Decode(target); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (b *Base) Validate() error {
	if b.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL not set")
	}
	if b.ReceiptWidth <= 0 {
		return fmt.Errorf("config: RECEIPT_WIDTH must be positive, got %d", b.ReceiptWidth)
	}
	if b.RowsPerPage <= 0 {
		return fmt.Errorf("config: DOCUMENT_ROWS_PER_PAGE must be positive, got %d", b.RowsPerPage)
	}
	if _, err := time.LoadLocation(b.TimeZone); err != nil {
		return fmt.Errorf("config: TIMEZONE: %w", err)
	}
	return nil
}

func (b *Base) Location() *time.Location {
	loc, err := time.LoadLocation(b.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) Validate() error {
	if err := c.Base.Validate(); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET not set")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: CHECKLIST_SESSION_TTL must be positive, got %s", c.SessionTTL)
	}

	if c.R2.Enabled() {
		missing := []string{}
		for name, v := range map[string]string{
			"R2_ENDPOINT":    c.R2.Endpoint,
			"R2_ACCESS_KEY":  c.R2.AccessKey,
			"R2_SECRET_KEY":  c.R2.SecretKey,
			"R2_BUCKET_NAME": c.R2.Bucket,
		} {
			if v == "" {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return fmt.Errorf("config: incomplete R2 settings, missing %s", strings.Join(missing, ", "))
		}
	}

	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

var defaultOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// AllowedOrigins splits CORS_ORIGINS on commas
func (c *Config) AllowedOrigins() []string {
	if strings.TrimSpace(c.CORSOrigins) == "" {
		return defaultOrigins
	}

	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
