package exporter

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"

	"gaitcli/pkg/contracts/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestChartReporter_Report(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	r := NewChartReporter(dir)

	require.NoError(t, r.Report(context.Background(), testMetrics("walk01", 1.25)))

	path := r.ChartPath("walk01")
	assert.Equal(t, filepath.Join(dir, "walk01_output.png"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pngMagic, content[:len(pngMagic)])
}

func TestChartReporter_AllUndefined(t *testing.T) {
	r := NewChartReporter(t.TempDir())
	nan := math.NaN()
	m := &domain.GaitMetrics{
		Trial:        "empty",
		Time:         []float64{0, 1},
		Angles:       []domain.AngleSeries{{Joint: domain.JointHeadNeck, Degrees: []float64{nan, nan}}},
		WalkingSpeed: nan,
	}

	require.NoError(t, r.Report(context.Background(), m))
	_, err := os.Stat(r.ChartPath("empty"))
	assert.NoError(t, err)
}

func TestSegments(t *testing.T) {
	nan := math.NaN()
	got := segments(
		[]float64{0, 1, 2, 3, 4, nan, 6},
		[]float64{10, nan, 12, 13, 14, 15, 16, 17},
	)

	assert.Equal(t, []plotter.XYs{
		{{X: 0, Y: 10}},
		{{X: 2, Y: 12}, {X: 3, Y: 13}, {X: 4, Y: 14}},
		{{X: 6, Y: 16}},
	}, got)

	assert.Empty(t, segments([]float64{nan}, []float64{nan}))
}

func TestSpeedLabel(t *testing.T) {
	assert.Equal(t, "undefined", speedLabel(math.NaN()))
	assert.Equal(t, "2.500 units/s", speedLabel(2.5))
}
