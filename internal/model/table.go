package model

import "strconv"

// CellKind is the dynamic type of an extracted cell value.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
	CellBool
)

// CellValue is one typed scalar read from a worksheet. Formula error
// sentinels are normalized to a numeric zero before a CellValue is built.
type CellValue struct {
	Kind CellKind
	Num  float64
	Str  string
	Bool bool
}

// Number builds a numeric cell.
func Number(v float64) CellValue { return CellValue{Kind: CellNumber, Num: v} }

// Text builds a text cell.
func Text(s string) CellValue { return CellValue{Kind: CellText, Str: s} }

// Boolean builds a boolean cell.
func Boolean(b bool) CellValue { return CellValue{Kind: CellBool, Bool: b} }

// Empty is the zero cell; it renders as "".
func Empty() CellValue { return CellValue{} }

// IsNumeric reports whether the cell carries a usable number. Booleans
// count as 0/1, matching the source workbook encoding.
func (c CellValue) IsNumeric() bool {
	return c.Kind == CellNumber || c.Kind == CellBool
}

// Float returns the numeric value of the cell; zero for non-numeric kinds.
func (c CellValue) Float() float64 {
	switch c.Kind {
	case CellNumber:
		return c.Num
	case CellBool:
		if c.Bool {
			return 1
		}
		return 0
	}
	return 0
}

// String renders the cell the way it would appear unformatted.
func (c CellValue) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellText:
		return c.Str
	case CellBool:
		if c.Bool {
			return "1"
		}
		return "0"
	}
	return ""
}

// Table is one rectangular block extracted from a sheet region, hidden rows
// and columns already removed. Rows keep the source's relative order.
type Table struct {
	Cells [][]CellValue
}

// Rows returns the row count.
func (t Table) Rows() int { return len(t.Cells) }

// Cols returns the column count of the first row; extraction always yields
// uniform rows.
func (t Table) Cols() int {
	if len(t.Cells) == 0 {
		return 0
	}
	return len(t.Cells[0])
}

// At returns the cell at 0-indexed (row, col) and whether it is in range.
func (t Table) At(row, col int) (CellValue, bool) {
	if row < 0 || row >= len(t.Cells) {
		return CellValue{}, false
	}
	if col < 0 || col >= len(t.Cells[row]) {
		return CellValue{}, false
	}
	return t.Cells[row][col], true
}
