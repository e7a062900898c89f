// Package fiscal implements the fiscal-calendar arithmetic the report
// pipeline is keyed on. The fiscal year starts in a configurable calendar
// month (August by default) and is named after the calendar year it ends in.
package fiscal

import (
	"fmt"
	"time"
)

// DefaultStartMonth is the first calendar month of the fiscal year.
const DefaultStartMonth = time.August

// Label is the fiscal period a calendar date falls into.
type Label struct {
	Year           int    // fiscal year, e.g. 2026
	Quarter        string // "Q1".."Q4"
	MonthOverall   string // "M1".."M12"
	MonthInQuarter string // "M1".."M3"
}

// Resolve computes the fiscal label for a date. Total over any date; there
// are no error cases.
func Resolve(date time.Time, startMonth time.Month) Label {
	if startMonth < time.January || startMonth > time.December {
		startMonth = DefaultStartMonth
	}

	year := date.Year()
	if date.Month() >= startMonth {
		year++
	}

	monthOverall := ((int(date.Month())-int(startMonth))%12+12)%12 + 1
	quarter := (monthOverall-1)/3 + 1
	monthInQuarter := (monthOverall-1)%3 + 1

	return Label{
		Year:           year,
		Quarter:        fmt.Sprintf("Q%d", quarter),
		MonthOverall:   fmt.Sprintf("M%d", monthOverall),
		MonthInQuarter: fmt.Sprintf("M%d", monthInQuarter),
	}
}

// YearShort returns the two-digit fiscal year, e.g. "26" for 2026.
func (l Label) YearShort() string {
	return fmt.Sprintf("%02d", l.Year%100)
}

// FilenamePart renders the fiscal fragment of the output filename,
// e.g. "M1 Q1FY26".
func (l Label) FilenamePart() string {
	return fmt.Sprintf("%s %sFY%s", l.MonthInQuarter, l.Quarter, l.YearShort())
}

// DateLabels returns the fixed date-tag vocabulary substituted into the
// slide template. Keys match the template's {{...}} tags verbatim.
func DateLabels(now time.Time, startMonth time.Month) map[string]string {
	label := Resolve(now, startMonth)

	return map[string]string{
		"QuarterLabel": label.Quarter,
		"MonthLabel":   label.MonthInQuarter,
		"Date":         fmt.Sprintf("%s %d, %d", now.Month().String(), now.Day(), now.Year()),
		"YearLabel":    fmt.Sprintf("%d", label.Year),
		"Title":        fmt.Sprintf("%s & %s Fcst", label.MonthInQuarter, label.Quarter),
		"dateLabel":    now.Format("01.02.06"),
		"Month":        now.Month().String(),
	}
}
