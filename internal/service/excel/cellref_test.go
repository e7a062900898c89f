package excel

import (
	"errors"
	"testing"
)

func TestParseCellRef(t *testing.T) {
	t.Parallel()

	cases := map[string]CellRef{
		"A1":   {Row: 1, Col: 1},
		"B10":  {Row: 10, Col: 2},
		"Z3":   {Row: 3, Col: 26},
		"AA1":  {Row: 1, Col: 27},
		"AP40": {Row: 40, Col: 42},
	}
	for ref, want := range cases {
		got, err := ParseCellRef(ref)
		if err != nil {
			t.Fatalf("ParseCellRef(%q): %v", ref, err)
		}
		if got != want {
			t.Fatalf("ParseCellRef(%q) = %+v, want %+v", ref, got, want)
		}
	}
}

func TestParseCellRef_Invalid(t *testing.T) {
	t.Parallel()

	for _, ref := range []string{"", "10B", "A0", "1A1", "!!"} {
		_, err := ParseCellRef(ref)
		if !errors.Is(err, ErrInvalidCellRef) {
			t.Fatalf("ParseCellRef(%q) err = %v, want ErrInvalidCellRef", ref, err)
		}
	}
}

func TestCellName(t *testing.T) {
	t.Parallel()

	if got, want := cellName(10, 2), "B10"; got != want {
		t.Fatalf("cellName(10, 2) = %q, want %q", got, want)
	}
	if got, want := cellName(1, 27), "AA1"; got != want {
		t.Fatalf("cellName(1, 27) = %q, want %q", got, want)
	}
}
