package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	apperrors "gaitcli/internal/errors"
)

func TestNewTrial(t *testing.T) {
	samples := mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})

	tests := []struct {
		name      string
		names     []string
		time      []float64
		monotonic bool
		wantErr   bool
	}{
		{"valid", []string{"XA", "YA"}, []float64{0, 1, 2}, true, false},
		{"time too short", []string{"XA", "YA"}, []float64{0, 1}, true, true},
		{"too few names", []string{"XA"}, []float64{0, 1, 2}, true, true},
		{"decreasing time", []string{"XA", "YA"}, []float64{0, 2, 1}, true, true},
		{"decreasing time allowed", []string{"XA", "YA"}, []float64{0, 2, 1}, false, false},
		{"nan time skipped", []string{"XA", "YA"}, []float64{0, math.NaN(), 1}, true, false},
		{"repeated time", []string{"XA", "YA"}, []float64{1, 1, 1}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trial, err := NewTrial("walk", tt.names, samples, tt.time, tt.monotonic)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrLayoutMismatch))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3, trial.Len())
		})
	}
}

func TestNewTrial_NilSamples(t *testing.T) {
	_, err := NewTrial("walk", nil, nil, nil, false)
	assert.True(t, errors.Is(err, apperrors.ErrLayoutMismatch))
}

func TestTrial_Column(t *testing.T) {
	samples := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	trial, err := NewTrial("walk", []string{"XA", "YA", "XA"}, samples, []float64{0, 1}, true)
	require.NoError(t, err)

	col, ok := trial.Column("YA")
	require.True(t, ok)
	assert.Equal(t, []float64{2, 5}, col)

	// First occurrence wins.
	assert.Equal(t, 0, trial.ColumnIndex("XA"))

	_, ok = trial.Column("ZA")
	assert.False(t, ok)
}

func TestRawTable_Cell(t *testing.T) {
	table := RawTableFromStrings([][]string{
		{"a", "b"},
		{"c"},
	})

	assert.Equal(t, TextCell("b"), table.Cell(0, 1))
	assert.False(t, table.Cell(1, 1).Present)
	assert.False(t, table.Cell(5, 0).Present)
	assert.True(t, table.Cell(1, 1).IsBlank())
	assert.True(t, TextCell("   ").IsBlank())
	assert.False(t, TextCell(" x ").IsBlank())
}

func TestGaitMetrics_Angle(t *testing.T) {
	m := &GaitMetrics{Angles: []AngleSeries{{Joint: JointKneeLeft, Degrees: []float64{10}}}}

	a, ok := m.Angle(JointKneeLeft)
	require.True(t, ok)
	assert.Equal(t, []float64{10}, a.Degrees)

	_, ok = m.Angle(JointHeadNeck)
	assert.False(t, ok)
}
