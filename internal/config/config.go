package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/alexanderramin/fyplan/internal/domain"
)

// Config holds all fyplan configuration.
type Config struct {
	General   GeneralConfig   `toml:"general"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Session   SessionConfig   `toml:"session"`
}

// GeneralConfig holds storage and display preferences.
type GeneralConfig struct {
	DBPath     string `toml:"db_path,omitempty"`
	CatalogDir string `toml:"catalog_dir,omitempty"`
	Currency   string `toml:"currency" validate:"required,alpha,len=3"`
	Locale     string `toml:"locale" validate:"required,bcp47_language_tag"`
	Verbose    bool   `toml:"verbose"`
}

// DashboardConfig holds dashboard paging settings.
type DashboardConfig struct {
	PageSize  int    `toml:"page_size" validate:"gte=1,lte=50"`
	PageDelay string `toml:"page_delay" validate:"required"`
}

// SessionConfig is the onboarding record of the current user.
type SessionConfig struct {
	Name        string     `toml:"name,omitempty"`
	Email       string     `toml:"email,omitempty" validate:"omitempty,email"`
	Hospital    string     `toml:"hospital,omitempty"`
	District    string     `toml:"district,omitempty"`
	Province    string     `toml:"province,omitempty"`
	Completed   bool       `toml:"completed"`
	CompletedAt *time.Time `toml:"completed_at,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency: "RWF",
			Locale:   "en",
		},
		Dashboard: DashboardConfig{
			PageSize:  4,
			PageDelay: "500ms",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fyplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fyplan")
}

// ConfigPath returns the config file path, honoring FYPLAN_CONFIG.
func ConfigPath() string {
	if p := os.Getenv("FYPLAN_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultDBPath is ~/.fyplan/fyplan.db.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".fyplan", "fyplan.db"), nil
}

// LoadDotEnv copies variables from a .env file in the working directory
// into the environment. Variables already set win. A missing file is fine.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Load reads the config file at path, returning defaults if it doesn't
// exist. Environment overrides are applied on top and the result is
// validated.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FYPLAN_DB"); v != "" {
		cfg.General.DBPath = v
	}
	if v := os.Getenv("FYPLAN_CATALOG_DIR"); v != "" {
		cfg.General.CatalogDir = v
	}
	if v := os.Getenv("FYPLAN_LOG"); v != "" {
		cfg.General.Verbose, _ = strconv.ParseBool(v)
	}
}

// Save writes the config to path, creating its directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the page delay format.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, len(fieldErrs))
			for i, fe := range fieldErrs {
				msgs[i] = fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.ParseDuration(c.Dashboard.PageDelay); err != nil {
		return fmt.Errorf("invalid config: dashboard.page_delay: %w", err)
	}
	return nil
}

// PageDelay is the debounce delay before a dashboard page change applies.
func (c Config) PageDelay() time.Duration {
	d, err := time.ParseDuration(c.Dashboard.PageDelay)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// SessionContext returns the onboarding record as the read-only context the
// services consume.
func (c Config) SessionContext() domain.Session {
	s := c.Session
	return domain.Session{
		Name:        s.Name,
		Email:       s.Email,
		Hospital:    strings.TrimSpace(s.Hospital),
		District:    s.District,
		Province:    s.Province,
		Completed:   s.Completed,
		CompletedAt: s.CompletedAt,
	}
}

// Exists returns true if a config file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
