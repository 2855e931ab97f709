package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/getfit/internal/flagx"
	"github.com/dmitrijs2005/getfit/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is a DTO used exclusively for file unmarshalling. Durations use
// timex.Duration so files may write "10s" or integer nanoseconds.
type fileConfig struct {
	AuthBaseURL      string         `json:"auth_url" yaml:"auth_url"`
	NutritionBaseURL string         `json:"nutrition_url" yaml:"nutrition_url"`
	RequestTimeout   timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	StoragePath      string         `json:"storage_path" yaml:"storage_path"`
	StorageSecret    string         `json:"storage_secret" yaml:"storage_secret"`
	LogFormat        string         `json:"log_format" yaml:"log_format"`
	LogLevel         string         `json:"log_level" yaml:"log_level"`
	S3               struct {
		Region    string `json:"region" yaml:"region"`
		Endpoint  string `json:"endpoint" yaml:"endpoint"`
		Bucket    string `json:"bucket" yaml:"bucket"`
		AccessKey string `json:"access_key" yaml:"access_key"`
		SecretKey string `json:"secret_key" yaml:"secret_key"`
	} `json:"s3" yaml:"s3"`
}

// parseFile overlays cfg with the file named by -c or -config in args.
// .yaml and .yml files are decoded as YAML, anything else as JSON. Keys
// missing from the file leave the current value untouched.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.AuthBaseURL, fc.AuthBaseURL)
	setString(&cfg.NutritionBaseURL, fc.NutritionBaseURL)
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	setString(&cfg.StoragePath, fc.StoragePath)
	setString(&cfg.StorageSecret, fc.StorageSecret)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.S3Region, fc.S3.Region)
	setString(&cfg.S3Endpoint, fc.S3.Endpoint)
	setString(&cfg.S3Bucket, fc.S3.Bucket)
	setString(&cfg.S3AccessKey, fc.S3.AccessKey)
	setString(&cfg.S3SecretKey, fc.S3.SecretKey)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
