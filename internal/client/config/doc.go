// Package config loads runtime configuration for the getfit CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in .yaml
//     or .yml are read as YAML, everything else as JSON.
//  3. Environment variables prefixed with GETFIT_ (see envconfig tags on Config).
//  4. Command-line flags, which override everything else.
//
// # File schema
//
//	{
//	  "auth_url": "http://127.0.0.1:8091",
//	  "nutrition_url": "http://127.0.0.1:8092",
//	  "request_timeout": "10s",
//	  "storage_path": "getfit.db",
//	  "log_level": "debug",
//	  "s3": {"bucket": "diaries", "endpoint": "http://127.0.0.1:9000"}
//	}
//
// request_timeout accepts a duration string or integer nanoseconds.
package config
