package exporter

import (
	"context"
	"sort"
	"sync"

	"gaitcli/pkg/contracts/domain"
)

// Output file names.
const (
	AnglesFileSuffix = "_angles.csv"
	SummaryFileName  = "walking_speed.csv"
	ChartFileSuffix  = "_output.png"
)

const anglePrecision = 4

// CSVReporter writes one angle CSV per trial and, on Finish, a walking speed
// summary covering every reported trial. It is safe for concurrent use.
type CSVReporter struct {
	writer *CSVWriter
	joints []string

	mu   sync.Mutex
	rows map[string][]string
}

// NewCSVReporter writes into dir. joints fixes the column order; joints a
// trial did not produce are left empty.
func NewCSVReporter(dir string, joints []string) *CSVReporter {
	return &CSVReporter{
		writer: NewCSVWriter(dir),
		joints: append([]string(nil), joints...),
		rows:   make(map[string][]string),
	}
}

// AnglesPath returns where the angle CSV of trial is written.
func (r *CSVReporter) AnglesPath(trial string) string {
	return r.writer.Path(fileStem(trial) + AnglesFileSuffix)
}

// SummaryPath returns where the walking speed summary is written.
func (r *CSVReporter) SummaryPath() string {
	return r.writer.Path(SummaryFileName)
}

// Report writes <trial>_angles.csv and records the trial's summary row.
func (r *CSVReporter) Report(ctx context.Context, m *domain.GaitMetrics) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	headers := append([]string{"time"}, r.joints...)
	series := make([][]float64, len(r.joints))
	for j, joint := range r.joints {
		if a, ok := m.Angle(joint); ok {
			series[j] = a.Degrees
		}
	}

	records := make([][]string, len(m.Time))
	for i, t := range m.Time {
		row := make([]string, 0, len(headers))
		row = append(row, formatFloat(t, anglePrecision))
		for _, degrees := range series {
			if i < len(degrees) {
				row = append(row, formatFloat(degrees[i], anglePrecision))
			} else {
				row = append(row, "")
			}
		}
		records[i] = row
	}

	if err := r.writer.WriteSimpleCSV(fileStem(m.Trial)+AnglesFileSuffix, headers, records); err != nil {
		return err
	}

	r.mu.Lock()
	r.rows[m.Trial] = r.summaryRow(m)
	r.mu.Unlock()
	return nil
}

// Finish writes walking_speed.csv with one row per reported trial, ordered by
// trial name.
func (r *CSVReporter) Finish(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	trials := make([]string, 0, len(r.rows))
	for name := range r.rows {
		trials = append(trials, name)
	}
	sort.Strings(trials)
	records := make([][]string, len(trials))
	for i, name := range trials {
		records[i] = r.rows[name]
	}
	r.mu.Unlock()

	return r.writer.WriteSimpleCSV(SummaryFileName, r.summaryHeaders(), records)
}

func (r *CSVReporter) summaryHeaders() []string {
	headers := []string{"trial", "walking_speed", "samples"}
	for _, joint := range r.joints {
		headers = append(headers, joint+"_rom")
	}
	return headers
}

func (r *CSVReporter) summaryRow(m *domain.GaitMetrics) []string {
	row := []string{m.Trial, formatFloat(m.WalkingSpeed, anglePrecision), formatInt(len(m.Time))}
	for _, joint := range r.joints {
		rom := ""
		for _, s := range m.Summaries {
			if s.Joint == joint {
				rom = formatFloat(s.RangeOfMotion, anglePrecision)
				break
			}
		}
		row = append(row, rom)
	}
	return row
}
