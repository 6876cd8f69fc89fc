package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/CrateFill/internal/logging"
	"github.com/piwi3910/CrateFill/internal/model"
)

const (
	envGridSize         = "CRATEFILL_GRID_SIZE"
	envSupportThreshold = "CRATEFILL_SUPPORT_THRESHOLD"
	envAllowRotation    = "CRATEFILL_ALLOW_ROTATION"
	envDataDir          = "CRATEFILL_DATA_DIR"
	envDBPath           = "CRATEFILL_DB_PATH"
	envLogLevel         = "CRATEFILL_LOG_LEVEL"
	envLogEncoding      = "CRATEFILL_LOG_ENCODING"

	defaultDirName   = ".cratefill"
	sessionsFileName = "sessions.db"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Pack        model.PackSettings
	DataDir     string
	DBPath      string
	LogLevel    string
	LogEncoding string
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Pack    yamlPack    `yaml:"pack"`
	DataDir string      `yaml:"data_dir"`
	DBPath  string      `yaml:"db_path"`
	Log     yamlLogging `yaml:"log"`
}

type yamlPack struct {
	GridSize         int     `yaml:"grid_size"`
	SupportThreshold float64 `yaml:"support_threshold"`
	AllowRotation    *bool   `yaml:"allow_rotation"`
}

type yamlLogging struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// CLIOverrides holds command-line flag overrides. Nil fields are unset.
type CLIOverrides struct {
	ConfigFile       string
	GridSize         *int
	SupportThreshold *float64
	AllowRotation    *bool
	DataDir          *string
	DBPath           *string
	LogLevel         *string
}

// Load resolves configuration with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, sessionsFileName)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// CatalogPath returns the catalog file inside the data directory.
func (c Config) CatalogPath() string {
	return filepath.Join(c.DataDir, "catalog.json")
}

// TemplatesPath returns the templates file inside the data directory.
func (c Config) TemplatesPath() string {
	return filepath.Join(c.DataDir, "templates.json")
}

func defaultConfig() Config {
	dir := defaultDirName
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, defaultDirName)
	}
	return Config{
		Pack:        model.DefaultSettings(),
		DataDir:     dir,
		LogLevel:    "info",
		LogEncoding: "console",
	}
}

func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return &yamlCfg, nil
}

func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Pack.GridSize != 0 {
		cfg.Pack.GridSize = yamlCfg.Pack.GridSize
	}
	if yamlCfg.Pack.SupportThreshold != 0 {
		cfg.Pack.SupportThreshold = yamlCfg.Pack.SupportThreshold
	}
	if yamlCfg.Pack.AllowRotation != nil {
		cfg.Pack.AllowRotation = *yamlCfg.Pack.AllowRotation
	}
	if yamlCfg.DataDir != "" {
		cfg.DataDir = expandHome(yamlCfg.DataDir)
	}
	if yamlCfg.DBPath != "" {
		cfg.DBPath = expandHome(yamlCfg.DBPath)
	}
	if yamlCfg.Log.Level != "" {
		cfg.LogLevel = yamlCfg.Log.Level
	}
	if yamlCfg.Log.Encoding != "" {
		cfg.LogEncoding = yamlCfg.Log.Encoding
	}
}

func applyEnvConfig(cfg *Config) {
	if raw := strings.TrimSpace(os.Getenv(envGridSize)); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			cfg.Pack.GridSize = v
		}
	}
	if raw := strings.TrimSpace(os.Getenv(envSupportThreshold)); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.Pack.SupportThreshold = v
		}
	}
	if raw := strings.TrimSpace(os.Getenv(envAllowRotation)); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.Pack.AllowRotation = v
		}
	}
	if dir := strings.TrimSpace(os.Getenv(envDataDir)); dir != "" {
		cfg.DataDir = expandHome(dir)
	}
	if path := strings.TrimSpace(os.Getenv(envDBPath)); path != "" {
		cfg.DBPath = expandHome(path)
	}
	if lvl := strings.TrimSpace(os.Getenv(envLogLevel)); lvl != "" {
		cfg.LogLevel = lvl
	}
	if enc := strings.TrimSpace(os.Getenv(envLogEncoding)); enc != "" {
		cfg.LogEncoding = enc
	}
}

func applyCLIOverrides(cfg *Config, o *CLIOverrides) {
	if o.GridSize != nil {
		cfg.Pack.GridSize = *o.GridSize
	}
	if o.SupportThreshold != nil {
		cfg.Pack.SupportThreshold = *o.SupportThreshold
	}
	if o.AllowRotation != nil {
		cfg.Pack.AllowRotation = *o.AllowRotation
	}
	if o.DataDir != nil && *o.DataDir != "" {
		cfg.DataDir = expandHome(*o.DataDir)
	}
	if o.DBPath != nil && *o.DBPath != "" {
		cfg.DBPath = expandHome(*o.DBPath)
	}
	if o.LogLevel != nil && *o.LogLevel != "" {
		cfg.LogLevel = *o.LogLevel
	}
}

func validateConfig(cfg Config) error {
	if err := model.ValidateSettings(cfg.Pack); err != nil {
		return err
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(cfg.LogEncoding) {
	case "json", "console":
	default:
		return fmt.Errorf("log encoding must be json or console, got %q", cfg.LogEncoding)
	}
	return nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
