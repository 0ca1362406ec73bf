package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config holds all runtime configuration. Values are resolved in order:
// per-environment defaults, then the YAML file named by CONFIG_FILE, then
// MEBOOK_-prefixed environment variables.
type Config struct {
	CORSOrigins               []string      `koanf:"cors_origins"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	Environment               string        `koanf:"environment"`
	Hostname                  string        `koanf:"hostname"`
	JWTSecret                 string        `koanf:"jwt_secret"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
	UploadDir                 string        `koanf:"upload_dir"`
	UploadRateLimit           float64       `koanf:"upload_rate_limit"`
}

const (
	environmentENV = "ENVIRONMENT"
	configFileENV  = "CONFIG_FILE"
	envPrefix      = "MEBOOK_"
)

func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		Environment:               "development",
		Hostname:                  hostname,
		ServerPort:                3000,
		UploadDir:                 "./uploads",
		UploadRateLimit:           10,
	}

	environment := os.Getenv(environmentENV)
	if environment == "" {
		environment = "development"
	}
	cfg.Environment = environment

	switch environment {
	case "development":
		loadDevelopmentConfig(cfg)
	case "test":
		loadTestConfig(cfg)
	case "production":
		loadProductionConfig(cfg)
	}

	k := koanf.New(".")

	if path := os.Getenv(configFileENV); path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrap(err, "config file error")
			}
		}
	}

	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	missing := []string{}
	if cfg.DatabaseFilePath == "" {
		missing = append(missing, "database_file_path (MEBOOK_DATABASE_FILE_PATH)")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "jwt_secret (MEBOOK_JWT_SECRET)")
	}
	if len(missing) > 0 {
		return nil, errors.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}
