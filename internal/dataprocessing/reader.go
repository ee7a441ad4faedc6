package dataprocessing

import (
	"context"
	"sync"

	"github.com/xuri/excelize/v2"

	apperrors "gaitcli/internal/errors"
	"gaitcli/pkg/contracts/domain"
)

// RawTableReader returns the raw cell grid of each trial in a source.
type RawTableReader interface {
	// Trials lists the trial identifiers in source order.
	Trials(ctx context.Context) ([]string, error)

	// ReadTable returns the trial's cells exactly as stored.
	ReadTable(ctx context.Context, trial string) (domain.RawTable, error)
}

// ExcelReader reads trials from the sheets of an .xlsx workbook. Reads are
// serialized on the workbook, so one reader may serve several workers.
type ExcelReader struct {
	mu   sync.Mutex
	file *excelize.File
	path string
}

// OpenExcel opens a motion-capture workbook for reading.
func OpenExcel(path string) (*ExcelReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewSourceUnavailable(path, err)
	}
	return &ExcelReader{file: f, path: path}, nil
}

// Close releases the workbook.
func (r *ExcelReader) Close() error {
	return r.file.Close()
}

// Trials returns the sheet names; each sheet is one trial.
func (r *ExcelReader) Trials(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.GetSheetList(), nil
}

// ReadTable returns the sheet's raw cell values without number formatting.
func (r *ExcelReader) ReadTable(ctx context.Context, trial string) (domain.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx, err := r.file.GetSheetIndex(trial)
	if err != nil || idx < 0 {
		return nil, apperrors.NewSourceUnavailable(trial, err).WithContext("workbook", r.path)
	}

	rows, err := r.file.GetRows(trial, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewSourceUnavailable(trial, err).WithContext("workbook", r.path)
	}
	return domain.RawTableFromStrings(rows), nil
}
