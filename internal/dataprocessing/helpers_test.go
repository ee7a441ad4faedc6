package dataprocessing

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/mat"
)

// sheet is a fixture sheet: rows of cell values, nil for unset cells.
type sheet struct {
	name string
	rows [][]interface{}
}

// writeWorkbook saves the sheets to a temporary .xlsx and returns its path.
func writeWorkbook(t *testing.T, sheets ...sheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(s.name, cell, v))
			}
		}
	}

	path := filepath.Join(t.TempDir(), "motiondata.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// trialSheet lays out labels and data in the default export layout.
func trialSheet(name string, labels []string, data [][]float64) sheet {
	rows := make([][]interface{}, 4+len(data))
	rows[0] = []interface{}{"Motion capture export"}
	rows[1] = []interface{}{}
	labelRow := []interface{}{"Frame"}
	for _, l := range labels {
		labelRow = append(labelRow, l)
	}
	rows[2] = labelRow
	rows[3] = []interface{}{"s"}
	for i, d := range data {
		row := make([]interface{}, len(d))
		for j, v := range d {
			row[j] = v
		}
		rows[4+i] = row
	}
	return sheet{name: name, rows: rows}
}

func denseValues(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out = append(out, m.At(i, j))
		}
	}
	return out
}
