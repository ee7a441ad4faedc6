package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	apperrors "gaitcli/internal/errors"
	"gaitcli/pkg/contracts/domain"
)

// Layout locates the label row, the first data row and the time column in a
// trial sheet. Indices are 0-based.
type Layout struct {
	LabelRow             int  `yaml:"label_row" envconfig:"LABEL_ROW" validate:"min=0"`
	DataStartRow         int  `yaml:"data_start_row" envconfig:"DATA_START_ROW" validate:"gtfield=LabelRow"`
	TimeColumn           int  `yaml:"time_column" envconfig:"TIME_COLUMN" validate:"min=0"`
	RequireMonotonicTime bool `yaml:"require_monotonic_time" envconfig:"REQUIRE_MONOTONIC_TIME"`
}

// DefaultLayout is the layout of the lab's motion-capture exports: labels on
// row 2, data from row 4, time in column 0.
func DefaultLayout() Layout {
	return Layout{
		LabelRow:             2,
		DataStartRow:         4,
		TimeColumn:           0,
		RequireMonotonicTime: true,
	}
}

// Normalizer turns a RawTable into a typed Trial.
type Normalizer struct {
	layout Layout
}

// NewNormalizer creates a normalizer for the given layout.
func NewNormalizer(layout Layout) *Normalizer {
	return &Normalizer{layout: layout}
}

// Layout returns the layout the normalizer applies.
func (n *Normalizer) Layout() Layout {
	return n.layout
}

// Normalize extracts marker names, the sample matrix and the time vector.
// Cells that do not parse as numbers become NaN; no row or column is dropped.
func (n *Normalizer) Normalize(name string, table domain.RawTable) (*domain.Trial, error) {
	l := n.layout
	if table.Rows() <= l.LabelRow {
		return nil, layoutError(name, fmt.Sprintf("table has %d rows, label row is %d", table.Rows(), l.LabelRow))
	}

	firstDataCol := l.TimeColumn + 1
	var names []string
	for col := firstDataCol; col < len(table[l.LabelRow]); col++ {
		cell := table.Cell(l.LabelRow, col)
		if cell.IsBlank() {
			continue
		}
		if label := CanonicalLabel(cell.Text); label != "" {
			names = append(names, label)
		}
	}
	if len(names) == 0 {
		return nil, layoutError(name, "label row holds no marker names")
	}

	rows := table.Rows() - l.DataStartRow
	if rows <= 0 {
		return nil, layoutError(name, fmt.Sprintf("no data rows at or after row %d", l.DataStartRow))
	}

	width := 0
	for r := l.DataStartRow; r < table.Rows(); r++ {
		if w := len(table[r]) - firstDataCol; w > width {
			width = w
		}
	}
	if len(names) < width {
		return nil, layoutError(name, fmt.Sprintf("%d marker names for a data region %d columns wide", len(names), width))
	}

	samples := mat.NewDense(rows, len(names), nil)
	time := make([]float64, rows)
	for i := 0; i < rows; i++ {
		r := l.DataStartRow + i
		time[i] = parseNumber(table.Cell(r, l.TimeColumn))
		for j := range names {
			samples.Set(i, j, parseNumber(table.Cell(r, firstDataCol+j)))
		}
	}

	trial, err := domain.NewTrial(name, names, samples, time, l.RequireMonotonicTime)
	if err != nil {
		return nil, err
	}
	return trial, nil
}

// Denormalize lays a trial back out as a RawTable in the normalizer's layout.
// NaN samples become absent cells, so Normalize(Denormalize(t)) reproduces t.
func (n *Normalizer) Denormalize(trial *domain.Trial) domain.RawTable {
	l := n.layout
	firstDataCol := l.TimeColumn + 1
	width := firstDataCol + len(trial.MarkerNames)

	table := make(domain.RawTable, l.DataStartRow+trial.Len())
	for r := 0; r < l.DataStartRow; r++ {
		table[r] = []domain.Cell{}
	}

	labels := make([]domain.Cell, width)
	for j, label := range trial.MarkerNames {
		labels[firstDataCol+j] = domain.TextCell(label)
	}
	table[l.LabelRow] = labels

	for i := 0; i < trial.Len(); i++ {
		row := make([]domain.Cell, width)
		row[l.TimeColumn] = formatNumber(trial.Time[i])
		for j := range trial.MarkerNames {
			row[firstDataCol+j] = formatNumber(trial.Samples.At(i, j))
		}
		table[l.DataStartRow+i] = row
	}
	return table
}

// parseNumber coerces a cell to float64. Absent, blank and non-numeric cells
// are NaN.
func parseNumber(c domain.Cell) float64 {
	if !c.Present {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func formatNumber(v float64) domain.Cell {
	if math.IsNaN(v) {
		return domain.Cell{}
	}
	return domain.TextCell(strconv.FormatFloat(v, 'g', -1, 64))
}

func layoutError(trial, msg string) error {
	return apperrors.NewLayoutMismatch(msg).WithContext("trial", trial)
}
