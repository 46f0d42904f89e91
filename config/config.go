package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyDatabasePath      = "database.path"
	KeyLogLevel          = "log.level"
	KeyEntryDefaultHours = "entry.default_hours"
	KeyExportDirectory   = "export.directory"
)

const (
	DefaultLogLevel     = "warn"
	DefaultEntryHours   = 8.0
	DefaultExportFolder = "."
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Entry    EntryConfig    `mapstructure:"entry"`
	Export   ExportConfig   `mapstructure:"export"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
}

type EntryConfig struct {
	DefaultHours float64 `mapstructure:"default_hours" validate:"gte=0,lte=24"`
}

type ExportConfig struct {
	Directory string `mapstructure:"directory" validate:"required"`
}

// DefaultDatabasePath is logs.db inside the per-user config directory,
// or in the working directory when that cannot be resolved.
func DefaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "logs.db"
	}
	return filepath.Join(dir, "hours", "logs.db")
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return fmt.Sprintf(`# hours configuration
database:
  path: %q

log:
  # debug | info | warn | error
  level: %q

entry:
  # used by "hours log" when --hours is omitted
  default_hours: %g

export:
  # where "hours export" writes files when --out is omitted
  directory: %q
`, DefaultDatabasePath(), DefaultLogLevel, DefaultEntryHours, DefaultExportFolder)
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath())
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyEntryDefaultHours, DefaultEntryHours)
	v.SetDefault(KeyExportDirectory, DefaultExportFolder)
}
