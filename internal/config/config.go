package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"gaitcli/internal/dataprocessing"
	apperrors "gaitcli/internal/errors"
	"gaitcli/pkg/contracts/domain"
)

const (
	// EnvPrefix namespaces every environment variable, e.g. GAIT_PIPELINE_WORKERS.
	EnvPrefix = "GAIT"

	// ConfigFileEnv names the variable holding an optional YAML config file path.
	ConfigFileEnv = "GAIT_CONFIG"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig         `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig           `yaml:"paths" envconfig:"PATHS"`
	Pipeline  PipelineConfig        `yaml:"pipeline" envconfig:"PIPELINE"`
	Layout    dataprocessing.Layout `yaml:"layout" envconfig:"LAYOUT"`
	Telemetry TelemetryConfig       `yaml:"telemetry" envconfig:"TELEMETRY"`
	Markers   []MarkerGroupConfig   `yaml:"markers" ignored:"true" validate:"omitempty,dive"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DatasetFile string `yaml:"dataset_file" envconfig:"DATASET_FILE" validate:"required"`
	OutputDir   string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
}

// PipelineConfig controls how trials are processed
type PipelineConfig struct {
	Workers      int           `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=256"`
	TrialTimeout time.Duration `yaml:"trial_timeout" envconfig:"TRIAL_TIMEOUT" validate:"min=0"`
	Charts       bool          `yaml:"charts" envconfig:"CHARTS"`
	CSV          bool          `yaml:"csv" envconfig:"CSV"`
}

// TelemetryConfig selects the OpenTelemetry exporters
type TelemetryConfig struct {
	ServiceName     string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceExporter   string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	MetricsExporter string `yaml:"metrics_exporter" envconfig:"METRICS_EXPORTER" validate:"oneof=none prometheus"`
	MetricsFile     string `yaml:"metrics_file" envconfig:"METRICS_FILE" validate:"excluded_if=MetricsExporter none"`
}

// MarkerGroupConfig is one landmark of a marker table override. Channels
// lists the X, Y and Z column labels.
type MarkerGroupConfig struct {
	Name     string   `yaml:"name" validate:"required"`
	Channels []string `yaml:"channels" validate:"len=3,dive,required"`
}

// Load builds the configuration from defaults, the YAML file named by
// GAIT_CONFIG (if set) and GAIT_* environment variables, in increasing
// order of precedence.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(ConfigFileEnv))
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file. Relative paths in the paths section are resolved against the
// file's directory; relative paths from the environment stay relative to the
// working directory.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", path)
		}
		cfg.Paths = cfg.Paths.Resolve(filepath.Dir(path))
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys absent from the file
// keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// Validate checks struct constraints and that the marker table, if given,
// builds.
func (c *Config) Validate() error {
	if err := ValidateStruct(c); err != nil {
		return err
	}
	if len(c.Markers) > 0 {
		if _, err := c.MarkerSet(); err != nil {
			return err
		}
	}
	return nil
}

// MarkerSet returns the configured marker table, or the default table when
// none is configured.
func (c *Config) MarkerSet() (*dataprocessing.MarkerSet, error) {
	if len(c.Markers) == 0 {
		return dataprocessing.DefaultMarkerSet(), nil
	}

	groups := make([]domain.MarkerGroup, len(c.Markers))
	for i, m := range c.Markers {
		if len(m.Channels) != 3 {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("marker group %q needs 3 channels, has %d", m.Name, len(m.Channels)), nil)
		}
		groups[i] = domain.MarkerGroup{
			Name:     m.Name,
			Channels: [3]string{m.Channels[0], m.Channels[1], m.Channels[2]},
		}
	}
	return dataprocessing.NewMarkerSet(groups)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/gait.log",
		},
		Paths: PathsConfig{
			DatasetFile: "data/dataset.msgpack",
			OutputDir:   "plots",
		},
		Pipeline: PipelineConfig{
			Workers: 4,
			Charts:  true,
			CSV:     true,
		},
		Layout: dataprocessing.DefaultLayout(),
		Telemetry: TelemetryConfig{
			ServiceName:     "gaitcli",
			TraceExporter:   "none",
			MetricsExporter: "prometheus",
		},
	}
}
