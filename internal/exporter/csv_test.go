package exporter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gaitcli/internal/errors"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})
	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir)

	tests := []struct {
		name     string
		file     string
		options  WriteOptions
		validate func(t *testing.T, content []byte)
	}{
		{
			name: "basic write with headers",
			file: "basic.csv",
			options: WriteOptions{
				Headers: []string{"time", "knee_right"},
				Records: [][]string{{"0.0000", "12.5000"}, {"0.0100", ""}},
			},
			validate: func(t *testing.T, content []byte) {
				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Equal(t, []string{"time,knee_right", "0.0000,12.5000", "0.0100,"}, lines)
			},
		},
		{
			name: "write with BOM prefix",
			file: "bom.csv",
			options: WriteOptions{
				Headers:   []string{"trial"},
				Records:   [][]string{{"walk01"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, content []byte) {
				assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))
				assert.Equal(t, "trial\nwalk01\n", string(content[3:]))
			},
		},
		{
			name: "nested directory is created",
			file: filepath.Join("nested", "deeper", "out.csv"),
			options: WriteOptions{
				Records: [][]string{{"a", "b"}},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "a,b\n", string(content))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, writer.WriteCSV(tt.file, tt.options))
			content, err := os.ReadFile(filepath.Join(tempDir, tt.file))
			require.NoError(t, err)
			tt.validate(t, content)
		})
	}
}

func TestCSVWriter_Path(t *testing.T) {
	writer := NewCSVWriter("/data/out")
	assert.Equal(t, filepath.Join("/data/out", "a.csv"), writer.Path("a.csv"))
	assert.Equal(t, "/tmp/b.csv", writer.Path("/tmp/b.csv"))
}

func TestCSVWriter_SpecialCharacters(t *testing.T) {
	writer := NewCSVWriter(t.TempDir())

	records := [][]string{
		{"walk, barefoot", "said \"slow\"", "line\nbreak"},
	}
	require.NoError(t, writer.WriteSimpleCSV("special.csv", []string{"a", "b", "c"}, records))

	got := readCSV(t, writer.Path("special.csv"))
	require.Len(t, got, 2)
	assert.Equal(t, records[0], got[1])
}

func TestCSVWriter_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	// A regular file where a directory is expected.
	err := NewCSVWriter(blocker).WriteSimpleCSV("out.csv", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStorage))
}
