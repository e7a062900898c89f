package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/jadonco1010/PPTAutomation/internal/model"
)

// Region extraction reads every block twice: once through excelize, which
// resolves formulas to their last-cached result, and once through the raw
// package reader. A formula-aware value that is still formula text (leading
// "=") is overridden by the raw reader's cached value for that cell.

var rawOpts = excelize.Options{RawCellValue: true}

// ExtractTables produces one table per region of a sheet, with hidden rows
// and columns removed and remaining cells re-indexed contiguously.
func ExtractTables(fa *excelize.File, raw *RawWorkbook, sheetName string, regions []model.Region, hiddenRows, hiddenCols map[int]struct{}) ([]model.Table, error) {
	rawValues := raw.CellValues(sheetName)

	tables := make([]model.Table, 0, len(regions))
	for _, region := range regions {
		start, err := ParseCellRef(region.Start)
		if err != nil {
			return nil, err
		}
		end, err := ParseCellRef(region.End)
		if err != nil {
			return nil, err
		}

		var rows [][]model.CellValue
		for r := start.Row; r <= end.Row; r++ {
			if _, hidden := hiddenRows[r]; hidden {
				continue
			}
			var row []model.CellValue
			for c := start.Col; c <= end.Col; c++ {
				if _, hidden := hiddenCols[c]; hidden {
					continue
				}
				row = append(row, readCell(fa, rawValues, sheetName, r, c))
			}
			rows = append(rows, row)
		}

		tables = append(tables, model.Table{Cells: rows})
	}

	return tables, nil
}

func readCell(fa *excelize.File, rawValues map[CellRef]model.CellValue, sheetName string, r, c int) model.CellValue {
	text, err := fa.GetCellValue(sheetName, cellName(r, c), rawOpts)
	if err != nil {
		log.Warn().Err(err).Str("sheet", sheetName).Str("cell", cellName(r, c)).
			Msg("formula-aware read failed; falling back to raw value")
		text = ""
	}

	if strings.HasPrefix(text, "=") {
		// The formula-aware layer surfaced the formula text itself; take the
		// cached value from the raw reader instead.
		if v, ok := rawValues[CellRef{Row: r, Col: c}]; ok {
			return v
		}
		return model.Empty()
	}

	return parseCellText(text)
}

func parseCellText(text string) model.CellValue {
	if text == "" {
		return model.Empty()
	}
	if _, isErr := errorSentinels[text]; isErr {
		return model.Number(0)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return model.Number(f)
	}
	return model.Text(text)
}

// LoadTables opens the preprocessed workbook through both readers and
// extracts every region of every resolved sheet, flattened in canonical
// order (role order, then region order within the role). The flat list is
// the positional table index the deck filler maps prefixes onto.
func LoadTables(path string, res model.ResolveResult) ([]model.Table, error) {
	raw, err := OpenRaw(path)
	if err != nil {
		return nil, err
	}

	fa, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer fa.Close()

	var all []model.Table
	for _, role := range model.FlattenOrder {
		sheetName, ok := res.Sheets[role]
		if !ok {
			continue
		}

		if _, err := raw.SheetXMLPath(sheetName); err != nil {
			log.Warn().Str("sheet", sheetName).Msg("sheet not found for table loading; skipping")
			continue
		}

		hiddenRows := raw.HiddenRows(sheetName)
		hiddenCols := raw.HiddenColumns(sheetName)

		tables, err := ExtractTables(fa, raw, sheetName, model.RoleRegions(role), hiddenRows, hiddenCols)
		if err != nil {
			return nil, fmt.Errorf("extract tables from %q: %w", sheetName, err)
		}

		log.Info().Str("sheet", sheetName).Str("role", string(role)).
			Int("tables", len(tables)).Msg("loaded tables")
		all = append(all, tables...)
	}

	return all, nil
}
