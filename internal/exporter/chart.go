package exporter

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	apperrors "gaitcli/internal/errors"
	"gaitcli/pkg/contracts/domain"
)

// ChartReporter renders each trial's joint angle profiles to
// <trial>_output.png.
type ChartReporter struct {
	dir    string
	width  vg.Length
	height vg.Length
}

// NewChartReporter writes charts into dir.
func NewChartReporter(dir string) *ChartReporter {
	return &ChartReporter{
		dir:    dir,
		width:  10 * vg.Inch,
		height: 6 * vg.Inch,
	}
}

// ChartPath returns where the chart of trial is written.
func (r *ChartReporter) ChartPath(trial string) string {
	return filepath.Join(r.dir, fileStem(trial)+ChartFileSuffix)
}

// Report draws one line per joint against time, with a legend and the
// walking speed under the title. Undefined samples leave gaps.
func (r *ChartReporter) Report(ctx context.Context, m *domain.GaitMetrics) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Joint angles: %s\nwalking speed %s", m.Trial, speedLabel(m.WalkingSpeed))
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Angle (deg)"
	p.Add(plotter.NewGrid())

	for i, series := range m.Angles {
		for k, seg := range segments(m.Time, series.Degrees) {
			line, err := plotter.NewLine(seg)
			if err != nil {
				return fmt.Errorf("joint %s: %w", series.Joint, err)
			}
			line.Color = plotutil.Color(i)
			line.Width = vg.Points(1)
			p.Add(line)
			if k == 0 {
				p.Legend.Add(series.Joint, line)
			}
		}
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	path := r.ChartPath(m.Trial)
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return apperrors.NewStorageError("create chart directory", err)
	}
	if err := p.Save(r.width, r.height, path); err != nil {
		return apperrors.NewStorageError("save chart", err).WithContext("path", path)
	}
	return nil
}

// segments splits a curve into runs of finite points.
func segments(time, values []float64) []plotter.XYs {
	n := min(len(time), len(values))
	var out []plotter.XYs
	var cur plotter.XYs
	for i := 0; i < n; i++ {
		if !finite(time[i]) || !finite(values[i]) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: time[i], Y: values[i]})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func speedLabel(v float64) string {
	if math.IsNaN(v) {
		return "undefined"
	}
	return fmt.Sprintf("%.3f units/s", v)
}
