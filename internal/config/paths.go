package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Resolve returns a copy with every relative path joined to baseDir.
func (p PathsConfig) Resolve(baseDir string) PathsConfig {
	abs := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(baseDir, path)
	}
	return PathsConfig{
		DatasetFile: abs(p.DatasetFile),
		OutputDir:   abs(p.OutputDir),
	}
}

// LogPathResolution logs the resolved paths for debugging
func (p PathsConfig) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Info("Path resolution summary",
		slog.Group("paths",
			slog.String("dataset_file", p.DatasetFile),
			slog.String("output_dir", p.OutputDir),
		))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
