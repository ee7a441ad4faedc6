package files

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "gaitcli/internal/errors"
)

// workbookExts are the spreadsheet formats the workbook reader can open.
var workbookExts = []string{".xlsx", ".xlsm"}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds input workbooks relative to a base path
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// resolve joins relative paths onto the base path
func (d *Discovery) resolve(path string) string {
	if filepath.IsAbs(path) || d.basePath == "" {
		return path
	}
	return filepath.Join(d.basePath, path)
}

// FindWorkbooks lists the workbooks directly inside dir, sorted by name.
// Office lock files ("~$...") are skipped.
func (d *Discovery) FindWorkbooks(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, apperrors.NewSourceUnavailable(fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !IsWorkbook(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// ResolveInputs expands path into workbook files. A file is returned as is;
// a directory yields its workbooks. An empty directory is an error.
func (d *Discovery) ResolveInputs(path string) ([]FileInfo, error) {
	fullPath := d.resolve(path)

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, apperrors.NewSourceUnavailable(fullPath, err)
	}
	if !info.IsDir() {
		return []FileInfo{{
			Path:    fullPath,
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}}, nil
	}

	files, err := d.FindWorkbooks(fullPath)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, apperrors.NewSourceUnavailable(fullPath, nil).
			WithContext("reason", "no workbooks found")
	}
	return files, nil
}

// IsWorkbook reports whether name looks like a readable workbook
func IsWorkbook(name string) bool {
	if strings.HasPrefix(name, "~$") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range workbookExts {
		if ext == e {
			return true
		}
	}
	return false
}
