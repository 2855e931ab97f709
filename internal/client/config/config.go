package config

import (
	"os"
	"time"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "GETFIT"

// Config holds runtime settings for the getfit CLI.
//
// Fields:
//   - AuthBaseURL: base URL of the auth service (login, register, users).
//   - NutritionBaseURL: base URL of the nutrition service.
//   - RequestTimeout: upper bound for every outbound HTTP request.
//   - StoragePath: SQLite file holding the encrypted credential record.
//   - StorageSecret: passphrase the storage key is derived from.
//   - S3*: diary export target; export is disabled when S3Bucket is empty.
type Config struct {
	AuthBaseURL      string        `envconfig:"AUTH_URL"`
	NutritionBaseURL string        `envconfig:"NUTRITION_URL"`
	RequestTimeout   time.Duration `envconfig:"REQUEST_TIMEOUT"`

	StoragePath   string `envconfig:"STORAGE_PATH"`
	StorageSecret string `envconfig:"STORAGE_SECRET"`

	LogFormat string `envconfig:"LOG_FORMAT"`
	LogLevel  string `envconfig:"LOG_LEVEL"`

	S3Region    string `envconfig:"S3_REGION"`
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.AuthBaseURL = "http://127.0.0.1:8091"
	c.NutritionBaseURL = "http://127.0.0.1:8092"
	c.RequestTimeout = 10 * time.Second
	c.StoragePath = "getfit.db"
	c.LogFormat = "text"
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

// ExportEnabled reports whether a diary export bucket is configured.
func (c *Config) ExportEnabled() bool {
	return c.S3Bucket != ""
}

// Load constructs a Config from defaults, then overlays the config file named
// by -c/-config (if any), GETFIT_* environment variables and finally the
// command-line flags in args. Later sources take precedence.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
