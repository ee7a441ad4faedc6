// Package config provides centralized configuration management for the gait
// tools. It handles loading configuration from multiple sources, validation,
// and provides a type-safe API for accessing configuration values.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. The YAML file named by GAIT_CONFIG
//  3. Default values (lowest priority)
//
// Relative paths read from the YAML file are resolved against the file's
// directory.
//
// # Environment Variables
//
// All environment variables follow the pattern GAIT_<SECTION>_<KEY>:
//
//	GAIT_PIPELINE_WORKERS=8
//	GAIT_PIPELINE_TRIAL_TIMEOUT=30s
//	GAIT_LAYOUT_DATA_START_ROW=4
//	GAIT_LOGGING_LEVEL=debug
//	GAIT_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Marker Table
//
// The landmark table can only be overridden from the YAML file:
//
//	markers:
//	  - name: torso
//	    channels: [XT10, YT10, ZT10]
//
// # Validation
//
// Every field is checked with validator struct tags at load time, and a
// configured marker table must build without duplicates or blank labels.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
