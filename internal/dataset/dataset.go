package dataset

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/mat"

	apperrors "gaitcli/internal/errors"
	"gaitcli/pkg/contracts"
	"gaitcli/pkg/contracts/domain"
)

// Entry is the stored form of one trial.
type Entry struct {
	MarkerNames []string             `msgpack:"marker_names"`
	MarkerData  map[string][]float64 `msgpack:"marker_data"`
	Time        []float64            `msgpack:"time"`
}

// container is the on-disk document.
type container struct {
	Version string           `msgpack:"version"`
	Order   []string         `msgpack:"order"`
	Trials  map[string]Entry `msgpack:"trials"`
}

// Dataset is a keyed collection of trials, the hand-off between ingestion
// and analysis. It is safe for concurrent use.
type Dataset struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]Entry

	// RequireMonotonicTime is applied when trials are rebuilt by LoadTrial.
	RequireMonotonicTime bool
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{
		entries:              make(map[string]Entry),
		RequireMonotonicTime: true,
	}
}

// Add stores a trial, replacing any trial with the same name. When a marker
// name repeats, the first column is kept.
func (d *Dataset) Add(trial *domain.Trial) {
	entry := Entry{
		MarkerNames: append([]string(nil), trial.MarkerNames...),
		MarkerData:  make(map[string][]float64, len(trial.MarkerNames)),
		Time:        append([]float64(nil), trial.Time...),
	}
	for j, name := range trial.MarkerNames {
		if _, ok := entry.MarkerData[name]; ok {
			continue
		}
		entry.MarkerData[name] = mat.Col(nil, j, trial.Samples)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.entries[trial.Name]; !exists {
		d.order = append(d.order, trial.Name)
	}
	d.entries[trial.Name] = entry
}

// Len returns the number of stored trials.
func (d *Dataset) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}

// Trials returns trial names in insertion order.
func (d *Dataset) Trials(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.order...), nil
}

// Entry returns the stored form of a trial.
func (d *Dataset) Entry(name string) (Entry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.entries[name]
	return e, ok
}

// LoadTrial rebuilds a domain.Trial from its stored entry.
func (d *Dataset) LoadTrial(ctx context.Context, name string) (*domain.Trial, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entry, ok := d.Entry(name)
	if !ok {
		return nil, apperrors.NewSourceUnavailable(name, nil)
	}
	if len(entry.MarkerNames) == 0 || len(entry.Time) == 0 {
		return nil, apperrors.NewLayoutMismatch("stored trial is empty").WithContext("trial", name)
	}

	rows, cols := len(entry.Time), len(entry.MarkerNames)
	samples := mat.NewDense(rows, cols, nil)
	for j, marker := range entry.MarkerNames {
		col, ok := entry.MarkerData[marker]
		if !ok {
			return nil, apperrors.NewLayoutMismatch(fmt.Sprintf("no data stored for marker %q", marker)).
				WithContext("trial", name)
		}
		if len(col) != rows {
			return nil, apperrors.NewLayoutMismatch(
				fmt.Sprintf("marker %q has %d samples, time has %d", marker, len(col), rows)).
				WithContext("trial", name)
		}
		samples.SetCol(j, col)
	}

	return domain.NewTrial(name, append([]string(nil), entry.MarkerNames...), samples,
		append([]float64(nil), entry.Time...), d.RequireMonotonicTime)
}

// Encode writes the dataset as msgpack.
func (d *Dataset) Encode(w io.Writer) error {
	d.mu.RLock()
	doc := container{
		Version: contracts.DataFormatVersion,
		Order:   d.order,
		Trials:  d.entries,
	}
	defer d.mu.RUnlock()

	if err := msgpack.NewEncoder(w).Encode(&doc); err != nil {
		return apperrors.NewStorageError("encode dataset", err)
	}
	return nil
}

// Decode reads a dataset written by Encode.
func Decode(r io.Reader) (*Dataset, error) {
	var doc container
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperrors.NewStorageError("decode dataset", err)
	}
	if doc.Version != contracts.DataFormatVersion {
		return nil, apperrors.NewStorageError(
			fmt.Sprintf("unsupported dataset version %q (want %q)", doc.Version, contracts.DataFormatVersion), nil)
	}

	d := New()
	for _, name := range doc.Order {
		entry, ok := doc.Trials[name]
		if !ok {
			return nil, apperrors.NewStorageError(fmt.Sprintf("dataset index lists missing trial %q", name), nil)
		}
		if _, dup := d.entries[name]; dup {
			continue
		}
		d.order = append(d.order, name)
		d.entries[name] = entry
	}
	return d, nil
}

// Save writes the dataset to path, replacing it atomically.
func (d *Dataset) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("create dataset directory", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperrors.NewStorageError("create dataset file", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := d.Encode(w); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("write dataset file", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError("close dataset file", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperrors.NewStorageError("replace dataset file", err)
	}
	return nil
}

// Load reads a dataset file. A missing file is SourceUnavailable.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewSourceUnavailable(path, err)
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}
