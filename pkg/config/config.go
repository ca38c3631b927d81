package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBackendName = "xfactor-backend"
	DefaultAppID       = "ai.xfactor.bot"
	DefaultHealthHost  = "127.0.0.1"
	DefaultHealthPort  = 9876
)

type Config struct {
	BackendName   string   `yaml:"backend_name"`
	AppID         string   `yaml:"app_id"`
	HealthHost    string   `yaml:"health_host"`
	HealthPort    int      `yaml:"health_port"`
	ProbeTimeout  string   `yaml:"probe_timeout"`
	StartupDelay  string   `yaml:"startup_delay"`
	GracePeriod   string   `yaml:"grace_period"`
	WatchInterval string   `yaml:"watch_interval"`
	ResourceDir   string   `yaml:"resource_dir"`
	DataDir       string   `yaml:"data_dir"`
	PIDFile       string   `yaml:"pid_file"`
	DevCommand    []string `yaml:"dev_command"`
	LogLevel      string   `yaml:"log_level"`
	LogFile       string   `yaml:"log_file"`
	LogMaxSizeMB  int      `yaml:"log_max_size_mb"`
	LogMaxBackups int      `yaml:"log_max_backups"`
	Notifications bool     `yaml:"notifications"`
}

var (
	configPath string
	configName string
)

func SetConfigPath(path string) {
	configPath = path
}

func SetConfigName(name string) {
	configName = name
}

func SetConfigFile(file string) {
	configPath = filepath.Dir(file)
	configName = filepath.Base(file)
}

// Path returns the config file location, or "" when none is set.
func Path() string {
	if configPath == "" || configName == "" {
		return ""
	}
	return filepath.Join(configPath, configName)
}

func Default() *Config {
	return &Config{
		BackendName:   DefaultBackendName,
		AppID:         DefaultAppID,
		HealthHost:    DefaultHealthHost,
		HealthPort:    DefaultHealthPort,
		ProbeTimeout:  "500ms",
		StartupDelay:  "500ms",
		GracePeriod:   "500ms",
		WatchInterval: "5s",
		LogLevel:      envOr("XFACTOR_LOG_LEVEL", "info"),
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
		Notifications: true,
	}
}

func Load() (*Config, error) {
	cfg := Default()

	if configPath == "" || configName == "" {
		return cfg, nil
	}

	configFile := filepath.Join(configPath, configName)
	data, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file doesn't exist, use defaults
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.fillDefaults()

	return cfg, nil
}

func Save(cfg *Config) error {
	if configPath == "" || configName == "" {
		return nil
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configFile := filepath.Join(configPath, configName)
	return os.WriteFile(configFile, data, 0644)
}

// fillDefaults restores required fields a config file blanked out.
func (c *Config) fillDefaults() {
	if strings.TrimSpace(c.BackendName) == "" {
		c.BackendName = DefaultBackendName
	}
	if strings.TrimSpace(c.AppID) == "" {
		c.AppID = DefaultAppID
	}
	if c.HealthHost == "" {
		c.HealthHost = DefaultHealthHost
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		c.HealthPort = DefaultHealthPort
	}
}

// ParseDuration parses a config duration string, returning fallback when the
// value is empty, malformed or negative.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
