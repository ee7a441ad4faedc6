package domain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	apperrors "gaitcli/internal/errors"
)

// Trial is one recording session's marker data after normalization.
//
// Samples has one row per time step and one column per marker channel, in the
// order of MarkerNames. Missing or non-numeric source cells are NaN.
type Trial struct {
	Name        string
	MarkerNames []string
	Samples     *mat.Dense
	Time        []float64
}

// NewTrial validates the shape invariants and returns a Trial. When
// requireMonotonicTime is set, the finite entries of time must be
// non-decreasing. All violations are layout mismatches.
func NewTrial(name string, markerNames []string, samples *mat.Dense, time []float64, requireMonotonicTime bool) (*Trial, error) {
	if samples == nil {
		return nil, apperrors.NewLayoutMismatch("trial has no sample matrix").WithContext("trial", name)
	}
	rows, cols := samples.Dims()
	if len(time) != rows {
		return nil, apperrors.NewLayoutMismatch(
			fmt.Sprintf("time vector has %d entries, sample matrix has %d rows", len(time), rows)).
			WithContext("trial", name)
	}
	if len(markerNames) != cols {
		return nil, apperrors.NewLayoutMismatch(
			fmt.Sprintf("%d marker names for %d sample columns", len(markerNames), cols)).
			WithContext("trial", name)
	}
	if requireMonotonicTime {
		if idx := firstDecrease(time); idx >= 0 {
			return nil, apperrors.NewLayoutMismatch(
				fmt.Sprintf("time decreases at row %d (%g after %g)", idx, time[idx], previousFinite(time, idx))).
				WithContext("trial", name)
		}
	}

	return &Trial{
		Name:        name,
		MarkerNames: markerNames,
		Samples:     samples,
		Time:        time,
	}, nil
}

// Len returns the number of time steps.
func (t *Trial) Len() int {
	return len(t.Time)
}

// ColumnIndex returns the index of the first marker with the given name, or -1.
func (t *Trial) ColumnIndex(name string) int {
	for i, n := range t.MarkerNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named marker channel.
func (t *Trial) Column(name string) ([]float64, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	return mat.Col(nil, idx, t.Samples), true
}

// firstDecrease returns the row index of the first finite time value smaller
// than the previous finite value, or -1. NaN entries are skipped.
func firstDecrease(time []float64) int {
	last := math.NaN()
	for i, v := range time {
		if math.IsNaN(v) {
			continue
		}
		if !math.IsNaN(last) && v < last {
			return i
		}
		last = v
	}
	return -1
}

func previousFinite(time []float64, idx int) float64 {
	for i := idx - 1; i >= 0; i-- {
		if !math.IsNaN(time[i]) {
			return time[i]
		}
	}
	return math.NaN()
}
