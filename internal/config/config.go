package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	controlpanel "github.com/CrimsonAS/controlpanel/backend"
)

// Config holds application configuration.
type Config struct {
	Controller ControllerConfig
	NATS       NATSConfig
	Metrics    MetricsConfig
	Log        LogConfig
	UI         UIConfig
	Services   []ServiceConfig
}

// ControllerConfig locates the controller that owns the VMs.
type ControllerConfig struct {
	Socket string
}

// NATSConfig enables publishing control actions to NATS when URL is set.
type NATSConfig struct {
	URL           string
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string
}

type LogConfig struct {
	Level string
	File  string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	VisibleRows      int      `mapstructure:"visible_rows"`
	SettingsSections []string `mapstructure:"settings_sections"`
}

// ServiceConfig seeds the service list when no controller is configured.
type ServiceConfig struct {
	Name        string
	DisplayName string `mapstructure:"display_name"`
	Status      string
	Details     string
	TrustLevel  string `mapstructure:"trust_level"`
	IsVM        bool   `mapstructure:"is_vm"`
}

// Service converts the seed entry. Status and trust level are given by name,
// and default to running and secure when empty.
func (s ServiceConfig) Service() (controlpanel.Service, error) {
	svc := controlpanel.Service{
		Name:        s.Name,
		DisplayName: s.DisplayName,
		Details:     s.Details,
		IsVM:        s.IsVM,
	}
	if s.Status != "" {
		if err := svc.Status.UnmarshalText([]byte(s.Status)); err != nil {
			return svc, fmt.Errorf("service %q: %w", s.Name, err)
		}
	}
	if s.TrustLevel != "" {
		if err := svc.TrustLevel.UnmarshalText([]byte(s.TrustLevel)); err != nil {
			return svc, fmt.Errorf("service %q: %w", s.Name, err)
		}
	}
	return svc, nil
}

// SeedServices converts every configured service.
func (c Config) SeedServices() ([]controlpanel.Service, error) {
	out := make([]controlpanel.Service, 0, len(c.Services))
	for _, s := range c.Services {
		if strings.TrimSpace(s.Name) == "" {
			return nil, errors.New("service without a name in config")
		}
		svc, err := s.Service()
		if err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, nil
}

// DefaultSettingsSections are the settings pages shown when none are configured.
var DefaultSettingsSections = []string{"Info", "Security", "Audio", "Display"}

// Load reads configuration from path, or from the default location when path
// is empty, and from the environment. Env var overrides use prefix CONTROLPANEL_.
// A missing config file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("controller.socket", "")
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", "controlpanel")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(os.TempDir(), "controlpanel.log"))
	v.SetDefault("ui.visible_rows", 6)
	v.SetDefault("ui.settings_sections", DefaultSettingsSections)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("CONTROLPANEL_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "controlpanel"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CONTROLPANEL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// an explicitly named file must exist; the default one is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.VisibleRows < 1 {
		c.UI.VisibleRows = 1
	}
	return c, nil
}
