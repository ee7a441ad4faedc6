package domain

import "strings"

// Cell is a single raw spreadsheet cell. Present is false for cells the source
// never stored (ragged row ends, unset cells).
type Cell struct {
	Text    string
	Present bool
}

// TextCell returns a present cell holding s.
func TextCell(s string) Cell {
	return Cell{Text: s, Present: true}
}

// IsBlank reports whether the cell is absent or holds only whitespace.
func (c Cell) IsBlank() bool {
	return !c.Present || strings.TrimSpace(c.Text) == ""
}

// RawTable is a row-major grid of cells exactly as read from one trial sheet.
// Rows may have different lengths.
type RawTable [][]Cell

// Rows returns the number of rows in the table.
func (t RawTable) Rows() int {
	return len(t)
}

// Cell returns the cell at (row, col), or an absent cell when out of range.
func (t RawTable) Cell(row, col int) Cell {
	if row < 0 || row >= len(t) || col < 0 || col >= len(t[row]) {
		return Cell{}
	}
	return t[row][col]
}

// RawTableFromStrings builds a table where every cell is present, the shape
// excelize returns from GetRows.
func RawTableFromStrings(rows [][]string) RawTable {
	table := make(RawTable, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, text := range row {
			cells[j] = TextCell(text)
		}
		table[i] = cells
	}
	return table
}
