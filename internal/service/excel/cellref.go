package excel

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidCellRef marks a cell reference that does not follow the
// column-letters-then-row-digits convention.
var ErrInvalidCellRef = errors.New("invalid cell reference")

// CellRef is a 1-indexed (row, column) cell coordinate.
type CellRef struct {
	Row int
	Col int
}

// ParseCellRef converts "B10" to {Row: 10, Col: 2}. Column letters are
// base-26 with no zero digit (A=1 .. Z=26, AA=27).
func ParseCellRef(ref string) (CellRef, error) {
	col, row, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return CellRef{}, fmt.Errorf("%w: %q", ErrInvalidCellRef, ref)
	}
	return CellRef{Row: row, Col: col}, nil
}

// columnName converts a 1-indexed column number back to its letters.
func columnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return ""
	}
	return name
}

// cellName renders a 1-indexed (row, col) pair as an A1-style reference.
func cellName(row, col int) string {
	return fmt.Sprintf("%s%d", columnName(col), row)
}
