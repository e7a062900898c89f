package excel

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/jadonco1010/PPTAutomation/internal/model"
)

// Preprocess copies the resolved sheets from the uploaded workbook into a
// clean values-only workbook at targetPath, preserving hidden-row flags.
// Later extraction stages read the preprocessed file instead of the upload,
// which may be macro-enabled and carry volatile formulas.
func Preprocess(raw *RawWorkbook, targetPath string, res model.ResolveResult) error {
	out := excelize.NewFile()
	defer out.Close()

	defaultSheet := out.GetSheetName(out.GetActiveSheetIndex())

	copied := 0
	for _, sheetName := range res.OrderedSheets() {
		hiddenRows := raw.HiddenRows(sheetName)
		cells := raw.CellValues(sheetName)

		if len(cells) == 0 && len(hiddenRows) == 0 {
			log.Warn().Str("sheet", sheetName).Msg("sheet appears empty; skipping during preprocessing")
			continue
		}

		if _, err := out.NewSheet(sheetName); err != nil {
			log.Error().Err(err).Str("sheet", sheetName).Msg("failed to create target sheet")
			continue
		}

		maxRow := 0
		for ref, value := range cells {
			if err := setCell(out, sheetName, ref, value); err != nil {
				log.Warn().Err(err).Str("sheet", sheetName).Str("cell", cellName(ref.Row, ref.Col)).
					Msg("failed to copy cell")
				continue
			}
			if ref.Row > maxRow {
				maxRow = ref.Row
			}
		}

		for row := range hiddenRows {
			if row > maxRow {
				continue
			}
			if err := out.SetRowVisible(sheetName, row, false); err != nil {
				log.Warn().Err(err).Str("sheet", sheetName).Int("row", row).
					Msg("failed to apply hidden row")
			}
		}

		copied++
		log.Info().Str("sheet", sheetName).Int("cells", len(cells)).
			Int("hiddenRows", len(hiddenRows)).Msg("preprocessed sheet")
	}

	if copied > 0 && defaultSheet != "" {
		if err := out.DeleteSheet(defaultSheet); err != nil {
			log.Warn().Err(err).Str("sheet", defaultSheet).Msg("failed to drop default sheet")
		}
	}

	if err := out.SaveAs(targetPath); err != nil {
		return fmt.Errorf("save preprocessed workbook %s: %w", targetPath, err)
	}
	return nil
}

func setCell(out *excelize.File, sheet string, ref CellRef, value model.CellValue) error {
	cell := cellName(ref.Row, ref.Col)
	switch value.Kind {
	case model.CellNumber:
		return out.SetCellValue(sheet, cell, value.Num)
	case model.CellBool:
		return out.SetCellValue(sheet, cell, value.Bool)
	case model.CellText:
		return out.SetCellValue(sheet, cell, value.Str)
	}
	return nil
}
