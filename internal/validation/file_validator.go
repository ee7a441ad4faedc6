package validation

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "gaitcli/internal/errors"
	"gaitcli/internal/files"
)

// zipMagic starts every .xlsx file; workbooks are zip containers.
var zipMagic = []byte("PK\x03\x04")

// FileValidator runs the preflight checks of the commands
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks that path is an existing, readable regular file
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		v.logger.Error("File not accessible",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewSourceUnavailable(path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewSourceUnavailable(path, fmt.Errorf("%s is a directory", path))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewSourceUnavailable(path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateWorkbook checks that path is a readable .xlsx workbook: right
// extension, not an Office lock file, and a zip container.
func (v *FileValidator) ValidateWorkbook(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if !files.IsWorkbook(filepath.Base(path)) {
		v.logger.Error("File is not a workbook",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(path)))
		return apperrors.NewSourceUnavailable(path, fmt.Errorf("not an .xlsx workbook"))
	}

	file, err := os.Open(path)
	if err != nil {
		return apperrors.NewSourceUnavailable(path, err)
	}
	defer file.Close()

	header := make([]byte, len(zipMagic))
	if _, err := io.ReadFull(file, header); err != nil || !bytes.Equal(header, zipMagic) {
		v.logger.Error("Workbook is corrupt or truncated",
			slog.String("file", path))
		return apperrors.NewSourceUnavailable(path, fmt.Errorf("not a zip container"))
	}
	return nil
}

// ValidateOutputDirectory ensures dir exists or can be created and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("create output directory", err).WithContext("directory", dir)
	}

	probe, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("output directory is not writable", err).WithContext("directory", dir)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
