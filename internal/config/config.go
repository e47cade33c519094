package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const FileName = "checkline.yml"

// Config models checkline.yml.
type Config struct {
	Operator struct {
		ID string `yaml:"id"`
	} `yaml:"operator"`
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
	Journal struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"journal"`
	Bootstrap struct {
		BusinessName string `yaml:"business_name"`
		ShortName    string `yaml:"short_name"`
	} `yaml:"bootstrap"`
	Display struct {
		ListLimit     int `yaml:"list_limit"`
		OverviewLimit int `yaml:"overview_limit"`
	} `yaml:"display"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create one with checkline config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("config.store.path is required")
	}
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) == "" {
		return fmt.Errorf("config.journal.path is required when the journal is enabled")
	}
	if strings.TrimSpace(c.Bootstrap.BusinessName) == "" {
		return fmt.Errorf("config.bootstrap.business_name is required")
	}
	if c.Display.ListLimit <= 0 {
		return fmt.Errorf("config.display.list_limit must be positive")
	}
	if c.Display.OverviewLimit <= 0 {
		return fmt.Errorf("config.display.overview_limit must be positive")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config.log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config.log.format must be 'text' or 'json'")
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, FileName)
}

// Resolve makes a workspace-relative path absolute against the workspace.
func Resolve(workspace, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, p)
}

// GenerateDefault returns default config YAML.
func GenerateDefault(operatorID string) string {
	if operatorID == "" {
		operatorID = "local-operator"
	}
	return fmt.Sprintf(defaultTemplate, operatorID)
}

// LoadOptional returns the defaults if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(""), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Default returns the default Config for an operator.
func Default(operatorID string) *Config {
	var cfg Config
	_ = yaml.Unmarshal([]byte(GenerateDefault(operatorID)), &cfg)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes. Keys missing from
// the document keep their default values.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// YAML renders the config back to YAML.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

const defaultTemplate = `operator:
  id: %s

store:
  path: .checkline/checklist.json

journal:
  enabled: true
  path: .checkline/journal.db

bootstrap:
  business_name: My Business
  short_name: ""

display:
  list_limit: 20
  overview_limit: 25

log:
  level: warning
  format: text
`
