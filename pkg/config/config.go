package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var GlobalConfig *Config

// Config global configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	MySQL  MySQLConfig  `yaml:"mysql"`
	Redis  RedisConfig  `yaml:"redis"`
	Logger LoggerConfig `yaml:"logger"`
	Fleet  FleetConfig  `yaml:"fleet"`

	// Registry maps logical service name -> base URL, resolved from the
	// environment at startup. A missing URL is a valid state (unconfigured).
	Registry []ServiceEntry `yaml:"-"`
}

// ServerConfig server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

// MySQLConfig MySQL configuration
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RedisConfig Redis configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LoggerConfig logger configuration
type LoggerConfig struct {
	Level  string           `yaml:"level"`  // debug, info, warn, error
	Output string           `yaml:"output"` // console, file, both
	File   LoggerFileConfig `yaml:"file"`
}

// LoggerFileConfig logger file configuration
type LoggerFileConfig struct {
	Path string `yaml:"path"`
}

// FleetConfig fleet monitoring configuration
type FleetConfig struct {
	ProbeTimeoutSec   int `yaml:"probe_timeout_sec"`   // per-service probe timeout (default 5)
	ModelProbeTimeout int `yaml:"model_probe_timeout"` // ML model health probe timeout (default 10)
	SnapshotCacheSec  int `yaml:"snapshot_cache_sec"`  // redis snapshot cache TTL (default 15)
	ReportExpiryDays  int `yaml:"report_expiry_days"`  // default report retention (default 90)
}

// ServiceEntry is one registry entry
type ServiceEntry struct {
	Name string
	URL  string
}

// serviceEnvKeys lists the monitored fleet in declaration order.
// Order matters: snapshots report unhealthy services in this order.
var serviceEnvKeys = []struct {
	name   string
	envKey string
}{
	{"fitneaseauth", "AUTH_SERVICE_URL"},
	{"fitneasecontent", "CONTENT_SERVICE_URL"},
	{"fitneasetracking", "TRACKING_SERVICE_URL"},
	{"fitneaseplanning", "PLANNING_SERVICE_URL"},
	{"fitneasesocial", "SOCIAL_SERVICE_URL"},
	{"fitneaseml", "ML_SERVICE_URL"},
	{"fitneaseengagement", "ENGAGEMENT_SERVICE_URL"},
	{"fitneasecomms", "COMMS_SERVICE_URL"},
	{"fitneasemedia", "MEDIA_SERVICE_URL"},
}

// Init initializes configuration
func Init() error {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}

	applyDefaults(&cfg)
	cfg.Registry = loadRegistry()

	GlobalConfig = &cfg
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Fleet.ProbeTimeoutSec <= 0 {
		cfg.Fleet.ProbeTimeoutSec = 5
	}
	if cfg.Fleet.ModelProbeTimeout <= 0 {
		cfg.Fleet.ModelProbeTimeout = 10
	}
	if cfg.Fleet.SnapshotCacheSec <= 0 {
		cfg.Fleet.SnapshotCacheSec = 15
	}
	if cfg.Fleet.ReportExpiryDays <= 0 {
		cfg.Fleet.ReportExpiryDays = 90
	}
}

func loadRegistry() []ServiceEntry {
	registry := make([]ServiceEntry, 0, len(serviceEnvKeys))
	for _, s := range serviceEnvKeys {
		registry = append(registry, ServiceEntry{Name: s.name, URL: os.Getenv(s.envKey)})
	}
	return registry
}

// ServiceURL returns the configured base URL for a service name.
// The second return reports whether the name is a known registry member.
func (c *Config) ServiceURL(name string) (string, bool) {
	for _, entry := range c.Registry {
		if entry.Name == name {
			return entry.URL, true
		}
	}
	return "", false
}
