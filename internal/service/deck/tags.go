package deck

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jadonco1010/PPTAutomation/internal/model"
	"github.com/jadonco1010/PPTAutomation/internal/service/format"
)

// Value tags look like {{a12}}: a one- or two-letter prefix naming a table
// and a 1-based cell index walking that table row-major. Date tags use the
// same braces around a label name, e.g. {{QuarterLabel}}, and are replaced
// before value tags so a label never gets misread as a prefix.
var valueTagRe = regexp.MustCompile(`\{\{([A-Za-z]{1,2})(\d+)\}\}`)

// TableIndex maps placeholder prefixes to extracted tables by position:
// the Nth table in canonical flatten order is addressed by the Nth prefix.
type TableIndex struct {
	tables map[string]model.Table
}

// NewTableIndex builds the prefix mapping. Tables beyond the prefix
// alphabet have no addressable name and are dropped with a log entry.
func NewTableIndex(tables []model.Table) *TableIndex {
	indexed := make(map[string]model.Table, len(tables))
	for i, table := range tables {
		if i >= len(format.PrefixOrder) {
			log.Warn().Int("extracted", len(tables)).Int("addressable", len(format.PrefixOrder)).
				Msg("more tables than prefixes; extra tables dropped")
			break
		}
		indexed[format.PrefixOrder[i]] = table
	}
	return &TableIndex{tables: indexed}
}

// Lookup resolves a value tag to its cell. The 1-based index walks the
// table row-major: index 1 is the top-left cell.
func (ti *TableIndex) Lookup(prefix string, index int) (model.CellValue, bool) {
	table, ok := ti.tables[prefix]
	if !ok {
		return model.CellValue{}, false
	}
	cols := table.Cols()
	if cols == 0 {
		return model.CellValue{}, false
	}
	row := (index - 1) / cols
	col := (index - 1) % cols
	return table.At(row, col)
}

// substituteDateTags replaces {{Label}} occurrences across whole paragraphs,
// so labels split across formatting runs still resolve. Only known label
// names substitute; anything else is left for the value-tag pass.
func substituteDateTags(slideXML string, labels map[string]string) string {
	return mapParagraphs(slideXML, func(text string) (string, bool) {
		if !strings.Contains(text, "{{") {
			return "", false
		}
		newText := text
		for name, value := range labels {
			newText = strings.ReplaceAll(newText, "{{"+name+"}}", value)
		}
		if newText == text {
			return "", false
		}
		return newText, true
	})
}

// substituteValueTags replaces every value tag within each run, formatting
// the looked-up cell by its prefix class. Tags that resolve to no table or
// fall outside the table are left literal and logged.
func substituteValueTags(slideXML, slidePath string, index *TableIndex) string {
	return mapRuns(slideXML, func(text string) (string, bool) {
		if !strings.Contains(text, "{{") {
			return "", false
		}

		changed := false
		newText := valueTagRe.ReplaceAllStringFunc(text, func(tag string) string {
			m := valueTagRe.FindStringSubmatch(tag)
			prefix := m[1]
			idx, _ := strconv.Atoi(m[2])
			if idx < 1 {
				return tag
			}

			cell, found := index.Lookup(prefix, idx)
			if !found {
				log.Warn().Str("slide", slidePath).Str("prefix", prefix).
					Int("index", idx).Msg("placeholder has no matching cell; left as-is")
				return tag
			}

			changed = true
			return format.Value(prefix, cell)
		})
		if !changed {
			return "", false
		}
		return newText, true
	})
}
