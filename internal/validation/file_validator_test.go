package validation

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "gaitcli/internal/errors"
)

func newValidator() *FileValidator {
	return NewFileValidator(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeRealWorkbook(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	path := filepath.Join(dir, "motiondata.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestFileValidator_ValidateWorkbook(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantErr   bool
	}{
		{
			name: "valid workbook",
			setupFunc: func(t *testing.T) string {
				return writeRealWorkbook(t, t.TempDir())
			},
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.xlsx")
			},
			wantErr: true,
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "trials.xlsx")
				require.NoError(t, os.Mkdir(dir, 0755))
				return dir
			},
			wantErr: true,
		},
		{
			name: "wrong extension",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "motiondata.csv")
				require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04rest"), 0644))
				return path
			},
			wantErr: true,
		},
		{
			name: "truncated workbook",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "motiondata.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("PK"), 0644))
				return path
			},
			wantErr: true,
		},
		{
			name: "not a zip",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "motiondata.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("Frame,X,Y,Z\n"), 0644))
				return path
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newValidator().ValidateWorkbook(tt.setupFunc(t))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrSourceUnavailable))
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "plots", "run1")
		require.NoError(t, newValidator().ValidateOutputDirectory(dir))
		assert.DirExists(t, dir)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plots")
		require.NoError(t, os.WriteFile(path, nil, 0644))

		err := newValidator().ValidateOutputDirectory(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrStorage))
	})
}

func TestNewFileValidator_DefaultLogger(t *testing.T) {
	v := NewFileValidator(nil)
	assert.NotNil(t, v.logger)
}
