// Package format renders extracted cell values for slide placeholders.
// Every placeholder prefix belongs to exactly one formatting class; the
// membership is a static table, not scattered conditionals.
package format

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jadonco1010/PPTAutomation/internal/model"
)

// Class is a numeric formatting rule applied by placeholder prefix.
type Class int

const (
	// PassThrough stringifies the value as-is.
	PassThrough Class = iota
	// Millions divides by 1,000,000 with one decimal; negatives render in
	// parentheses, e.g. -2500000 -> "(2.5)".
	Millions
	// IntPercent multiplies by 100, rounds to an integer and appends "%".
	IntPercent
	// OneDecimalPercent multiplies by 100 with one decimal and appends "%".
	OneDecimalPercent
	// Thousands floor-divides the integer part by 1000 with grouping.
	Thousands
)

// PrefixOrder assigns table-index positions: the Nth table extracted gets
// the Nth prefix. Tables beyond the alphabet are dropped (and logged by the
// caller).
var PrefixOrder = []string{
	"a", "aa", "b", "bb", "c", "cc", "d", "dd", "e", "ee",
	"f", "g", "h", "i", "j", "k", "l", "ff", "m", "n", "o", "p", "q",
	"gg", "r", "s", "t", "hh", "u", "v", "w", "ii", "x", "y", "z", "ab",
	"ac", "ad", "ae", "af", "ag", "ah", "AA", "A", "AB", "BB", "B", "BC",
	"CC", "C", "CD", "DD", "D", "DE", "EE", "E", "EF", "FF", "F", "FG",
}

var prefixClass = buildPrefixClasses()

func buildPrefixClasses() map[string]Class {
	classes := make(map[string]Class)

	millions := []string{
		"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
		"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
		"ab", "ac", "ad", "ae", "af", "ag", "ah",
	}
	intPercent := []string{"aa", "bb", "cc", "dd", "ee", "ff", "gg", "hh", "ii"}
	oneDecimal := []string{"AB", "BC", "CD", "DE", "EF", "FG", "HH", "II"}
	thousands := []string{"A", "B", "C", "D", "E", "F"}

	for _, p := range millions {
		classes[p] = Millions
	}
	for _, p := range intPercent {
		classes[p] = IntPercent
	}
	for _, p := range oneDecimal {
		classes[p] = OneDecimalPercent
	}
	for _, p := range thousands {
		classes[p] = Thousands
	}
	return classes
}

// ClassFor returns the formatting class for a prefix. Prefixes outside the
// membership table (including some in PrefixOrder) are pass-through.
func ClassFor(prefix string) Class {
	return prefixClass[prefix]
}

var grouped = message.NewPrinter(language.English)

// Value renders a cell for substitution under the given prefix. Text cells
// pass through unchanged and empty cells render as "", whatever the class.
func Value(prefix string, cell model.CellValue) string {
	if cell.Kind == model.CellText {
		return cell.Str
	}
	if cell.Kind == model.CellEmpty {
		return ""
	}

	v := cell.Float()
	switch ClassFor(prefix) {
	case Millions:
		if v < 0 {
			return fmt.Sprintf("(%.1f)", math.Abs(v)/1e6)
		}
		return fmt.Sprintf("%.1f", v/1e6)
	case IntPercent:
		return grouped.Sprintf("%d%%", int64(math.Round(v*100)))
	case OneDecimalPercent:
		return fmt.Sprintf("%.1f%%", v*100)
	case Thousands:
		return grouped.Sprintf("%d", floorDiv(int64(v), 1000))
	default:
		return cell.String()
	}
}

// floorDiv rounds toward negative infinity, matching the reporting rule
// that -1234 scales to -2 thousand, not -1.
func floorDiv(n, d int64) int64 {
	q := n / d
	if n%d != 0 && (n < 0) != (d < 0) {
		q--
	}
	return q
}
