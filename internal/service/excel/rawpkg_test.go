package excel

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/jadonco1010/PPTAutomation/internal/model"
)

// saveWorkbook writes a workbook built by fn to a temp file and returns the
// path.
func saveWorkbook(t *testing.T, fn func(f *excelize.File)) string {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	fn(f)

	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save fixture workbook: %v", err)
	}
	return path
}

func TestOpenRaw_SheetNames(t *testing.T) {
	t.Parallel()

	path := saveWorkbook(t, func(f *excelize.File) {
		if _, err := f.NewSheet("Q1 Commit"); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		if _, err := f.NewSheet("Margins Scenarios"); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
	})

	raw, err := OpenRaw(path)
	if err != nil {
		t.Fatalf("OpenRaw: %v", err)
	}

	names := raw.SheetNames()
	if got, want := len(names), 3; got != want {
		t.Fatalf("sheet count = %d, want %d: %v", got, want, names)
	}
	if names[1] != "Q1 Commit" || names[2] != "Margins Scenarios" {
		t.Fatalf("unexpected sheet order: %v", names)
	}
}

func TestRawWorkbook_CellValues(t *testing.T) {
	t.Parallel()

	path := saveWorkbook(t, func(f *excelize.File) {
		sheet := f.GetSheetName(f.GetActiveSheetIndex())
		mustSet := func(cell string, value any) {
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set %s: %v", cell, err)
			}
		}
		mustSet("A1", 42.5)
		mustSet("B1", "Revenue")
		mustSet("A2", -3)
		mustSet("B2", true)
	})

	raw, err := OpenRaw(path)
	if err != nil {
		t.Fatalf("OpenRaw: %v", err)
	}

	values := raw.CellValues(raw.SheetNames()[0])

	expect := map[CellRef]model.CellValue{
		{Row: 1, Col: 1}: model.Number(42.5),
		{Row: 1, Col: 2}: model.Text("Revenue"),
		{Row: 2, Col: 1}: model.Number(-3),
		{Row: 2, Col: 2}: model.Boolean(true),
	}
	for ref, want := range expect {
		got, ok := values[ref]
		if !ok {
			t.Fatalf("cell %v missing from raw values", ref)
		}
		if got != want {
			t.Fatalf("cell %v = %+v, want %+v", ref, got, want)
		}
	}
}

func TestRawWorkbook_HiddenRowsAndColumns(t *testing.T) {
	t.Parallel()

	path := saveWorkbook(t, func(f *excelize.File) {
		sheet := f.GetSheetName(f.GetActiveSheetIndex())
		for row := 1; row <= 6; row++ {
			if err := f.SetCellValue(sheet, cellName(row, 1), row); err != nil {
				t.Fatalf("set row %d: %v", row, err)
			}
		}
		if err := f.SetRowVisible(sheet, 3, false); err != nil {
			t.Fatalf("hide row: %v", err)
		}
		if err := f.SetRowVisible(sheet, 5, false); err != nil {
			t.Fatalf("hide row: %v", err)
		}
		if err := f.SetColVisible(sheet, "B", false); err != nil {
			t.Fatalf("hide column: %v", err)
		}
	})

	raw, err := OpenRaw(path)
	if err != nil {
		t.Fatalf("OpenRaw: %v", err)
	}
	sheet := raw.SheetNames()[0]

	hiddenRows := raw.HiddenRows(sheet)
	if got, want := len(hiddenRows), 2; got != want {
		t.Fatalf("hidden row count = %d, want %d: %v", got, want, hiddenRows)
	}
	for _, row := range []int{3, 5} {
		if _, ok := hiddenRows[row]; !ok {
			t.Fatalf("row %d not reported hidden: %v", row, hiddenRows)
		}
	}

	hiddenCols := raw.HiddenColumns(sheet)
	if _, ok := hiddenCols[2]; !ok {
		t.Fatalf("column B not reported hidden: %v", hiddenCols)
	}
}

func TestRawWorkbook_MissingSheet(t *testing.T) {
	t.Parallel()

	path := saveWorkbook(t, func(f *excelize.File) {})

	raw, err := OpenRaw(path)
	if err != nil {
		t.Fatalf("OpenRaw: %v", err)
	}

	if _, err := raw.SheetXMLPath("No Such Sheet"); !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("SheetXMLPath err = %v, want ErrSheetNotFound", err)
	}
	if values := raw.CellValues("No Such Sheet"); len(values) != 0 {
		t.Fatalf("CellValues for missing sheet = %v, want empty", values)
	}
}
