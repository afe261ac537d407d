// Package config loads the service settings from config.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultAddr        = ":8081"
	defaultStaticDir   = "static"
	defaultMaxUploadMB = 32
	defaultMaxClusters = 3
	defaultLogLevel    = "info"
)

type Config struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
	// ResultsDir must live under StaticDir so the images are served.
	ResultsDir  string   `yaml:"results_dir"`
	MaxUploadMB int      `yaml:"max_upload_mb"`
	MaxClusters int      `yaml:"max_clusters"`
	Seed        uint64   `yaml:"seed"`
	LogLevel    string   `yaml:"log_level"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Load reads the YAML file named by CONFIG_PATH (default config.yaml) if it exists,
// then applies RFM_* environment overrides and defaults.
func Load() (Config, error) {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", configPath, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("read %s: %w", configPath, err)
	}

	envOverride(&cfg.Addr, "RFM_ADDR")
	envOverride(&cfg.StaticDir, "RFM_STATIC_DIR")
	envOverride(&cfg.ResultsDir, "RFM_RESULTS_DIR")
	envOverride(&cfg.LogLevel, "RFM_LOG_LEVEL")
	if err := envOverrideInt(&cfg.MaxUploadMB, "RFM_MAX_UPLOAD_MB"); err != nil {
		return Config{}, err
	}
	if err := envOverrideInt(&cfg.MaxClusters, "RFM_MAX_CLUSTERS"); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("RFM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("RFM_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	if origins := os.Getenv("RFM_CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = defaultAddr
	}
	if c.StaticDir == "" {
		c.StaticDir = defaultStaticDir
	}
	if c.ResultsDir == "" {
		c.ResultsDir = filepath.Join(c.StaticDir, "results")
	}
	if c.MaxUploadMB == 0 {
		c.MaxUploadMB = defaultMaxUploadMB
	}
	if c.MaxClusters == 0 {
		c.MaxClusters = defaultMaxClusters
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Validate checks the settings that would break the pipeline or the static routes.
func (c Config) Validate() error {
	if c.MaxClusters < 1 {
		return fmt.Errorf("max_clusters must be positive, got %d", c.MaxClusters)
	}
	if c.MaxUploadMB < 1 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if _, err := c.ResultsURL(); err != nil {
		return err
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// ResultsURL is the public path of ResultsDir below /static.
func (c Config) ResultsURL() (string, error) {
	rel, err := filepath.Rel(c.StaticDir, c.ResultsDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("results_dir %q must be inside static_dir %q", c.ResultsDir, c.StaticDir)
	}
	return path.Join("/static", filepath.ToSlash(rel)), nil
}

// MaxUploadBytes is MaxUploadMB in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
