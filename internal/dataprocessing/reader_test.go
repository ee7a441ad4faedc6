package dataprocessing

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "gaitcli/internal/errors"
)

func TestExcelReader_Trials(t *testing.T) {
	path := writeWorkbook(t,
		trialSheet("walk01", []string{"XA"}, [][]float64{{0, 1}}),
		trialSheet("walk02", []string{"XA"}, [][]float64{{0, 2}}),
	)

	r, err := OpenExcel(path)
	require.NoError(t, err)
	defer r.Close()

	trials, err := r.Trials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"walk01", "walk02"}, trials)
}

func TestExcelReader_ReadTable(t *testing.T) {
	path := writeWorkbook(t, trialSheet("walk01",
		[]string{"XRxAsis  ", "YRxAsis  "},
		[][]float64{
			{0, 0.125, 12},
			{0.01, 0.25, 13.5},
		}))

	r, err := OpenExcel(path)
	require.NoError(t, err)
	defer r.Close()

	table, err := r.ReadTable(context.Background(), "walk01")
	require.NoError(t, err)
	require.Equal(t, 6, table.Rows())

	assert.Equal(t, "Motion capture export", table.Cell(0, 0).Text)
	assert.Equal(t, "XRxAsis  ", table.Cell(2, 1).Text)
	assert.Equal(t, "0.125", table.Cell(4, 1).Text)
	assert.Equal(t, "13.5", table.Cell(5, 2).Text)
	assert.False(t, table.Cell(4, 3).Present)
}

func TestExcelReader_UnknownTrial(t *testing.T) {
	path := writeWorkbook(t, trialSheet("walk01", []string{"XA"}, [][]float64{{0, 1}}))

	r, err := OpenExcel(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadTable(context.Background(), "walk99")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSourceUnavailable))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, path, appErr.Context["workbook"])
}

func TestExcelReader_CancelledContext(t *testing.T) {
	path := writeWorkbook(t, trialSheet("walk01", []string{"XA"}, [][]float64{{0, 1}}))

	r, err := OpenExcel(path)
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.ReadTable(ctx, "walk01")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenExcel_Missing(t *testing.T) {
	_, err := OpenExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSourceUnavailable))
}

func TestWorkbookSource_LoadTrial(t *testing.T) {
	path := writeWorkbook(t,
		trialSheet("walk01", []string{"XA  ", "YA  ", "ZA  "}, [][]float64{
			{0, 1, 2, 3},
			{0.5, 4, 5, 6},
		}),
		sheet{name: "notes", rows: [][]interface{}{{"operator", "JS"}}},
	)

	r, err := OpenExcel(path)
	require.NoError(t, err)
	defer r.Close()

	src := NewWorkbookSource(r, NewNormalizer(DefaultLayout()))

	trial, err := src.LoadTrial(context.Background(), "walk01")
	require.NoError(t, err)
	assert.Equal(t, []string{"XA", "YA", "ZA"}, trial.MarkerNames)
	assert.Equal(t, []float64{0, 0.5}, trial.Time)
	assert.Equal(t, 6.0, trial.Samples.At(1, 2))

	_, err = src.LoadTrial(context.Background(), "notes")
	assert.True(t, errors.Is(err, apperrors.ErrLayoutMismatch))

	_, err = src.LoadTrial(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrSourceUnavailable))
}
