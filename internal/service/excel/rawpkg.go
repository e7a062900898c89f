package excel

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jadonco1010/PPTAutomation/internal/model"
)

// The raw reader bypasses excelize and parses the workbook's zip parts
// directly. Hidden-row/column flags and cached formula values are only
// reliably visible at this level; excelize remains the formula-aware second
// path during extraction.

var (
	// ErrSheetNotFound marks a sheet name absent from workbook.xml or its
	// relationship entry missing from workbook.xml.rels.
	ErrSheetNotFound = errors.New("sheet not found in workbook")

	// ErrPartNotFound marks a referenced zip part absent from the package.
	ErrPartNotFound = errors.New("package part not found")
)

// Formula error sentinels; any of these normalizes to numeric zero.
var errorSentinels = map[string]struct{}{
	"#DIV/0!": {}, "#N/A": {}, "#NAME?": {}, "#NULL!": {},
	"#NUM!": {}, "#REF!": {}, "#VALUE!": {},
}

// RawWorkbook reads a spreadsheet package's internal XML directly.
type RawWorkbook struct {
	parts map[string][]byte

	sheetOrder []string
	sheetPath  map[string]string

	shared       []string
	sharedLoaded bool
}

// OpenRaw loads a workbook package from disk.
func OpenRaw(path string) (*RawWorkbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return NewRawWorkbook(data)
}

// NewRawWorkbook loads a workbook package from bytes.
func NewRawWorkbook(data []byte) (*RawWorkbook, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read workbook package: %w", err)
	}

	parts := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("read part %q: %w", f.Name, err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			rc.Close()
			return nil, fmt.Errorf("read part %q: %w", f.Name, err)
		}
		rc.Close()
		parts[f.Name] = buf.Bytes()
	}

	w := &RawWorkbook{parts: parts}
	if err := w.indexSheets(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *RawWorkbook) part(name string) ([]byte, error) {
	data, ok := w.parts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	return data, nil
}

type xmlWorkbook struct {
	Sheets struct {
		Sheet []struct {
			Name string `xml:"name,attr"`
			RID  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
		} `xml:"sheet"`
	} `xml:"sheets"`
}

type xmlRelationships struct {
	Relationship []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// indexSheets resolves every sheet name to its worksheet part via the
// workbook's relationship graph.
func (w *RawWorkbook) indexSheets() error {
	wbData, err := w.part("xl/workbook.xml")
	if err != nil {
		return err
	}
	var wb xmlWorkbook
	if err := xml.Unmarshal(wbData, &wb); err != nil {
		return fmt.Errorf("parse workbook.xml: %w", err)
	}

	relData, err := w.part("xl/_rels/workbook.xml.rels")
	if err != nil {
		return err
	}
	var rels xmlRelationships
	if err := xml.Unmarshal(relData, &rels); err != nil {
		return fmt.Errorf("parse workbook.xml.rels: %w", err)
	}

	targets := make(map[string]string, len(rels.Relationship))
	for _, rel := range rels.Relationship {
		targets[rel.ID] = rel.Target
	}

	w.sheetOrder = make([]string, 0, len(wb.Sheets.Sheet))
	w.sheetPath = make(map[string]string, len(wb.Sheets.Sheet))
	for _, sheet := range wb.Sheets.Sheet {
		w.sheetOrder = append(w.sheetOrder, sheet.Name)
		target, ok := targets[sheet.RID]
		if !ok {
			continue
		}
		target = strings.TrimPrefix(target, "/")
		if !strings.HasPrefix(target, "xl/") {
			target = "xl/" + target
		}
		w.sheetPath[sheet.Name] = target
	}

	return nil
}

// SheetNames returns the sheet names in workbook order.
func (w *RawWorkbook) SheetNames() []string {
	return append([]string(nil), w.sheetOrder...)
}

// SheetXMLPath resolves a sheet name to its worksheet part path.
func (w *RawWorkbook) SheetXMLPath(sheetName string) (string, error) {
	path, ok := w.sheetPath[sheetName]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrSheetNotFound, sheetName)
	}
	return path, nil
}

type xmlSST struct {
	SI []struct {
		T *struct {
			Value string `xml:",chardata"`
		} `xml:"t"`
		R []struct {
			T string `xml:"t"`
		} `xml:"r"`
	} `xml:"si"`
}

// SharedStrings returns the workbook's string table. Each entry concatenates
// all run-text fragments. A missing sharedStrings part yields an empty list.
func (w *RawWorkbook) SharedStrings() []string {
	if w.sharedLoaded {
		return w.shared
	}
	w.sharedLoaded = true

	data, err := w.part("xl/sharedStrings.xml")
	if err != nil {
		log.Warn().Msg("sharedStrings.xml not present; no shared strings to load")
		w.shared = []string{}
		return w.shared
	}

	var sst xmlSST
	if err := xml.Unmarshal(data, &sst); err != nil {
		log.Error().Err(err).Msg("failed to parse sharedStrings.xml")
		w.shared = []string{}
		return w.shared
	}

	strs := make([]string, 0, len(sst.SI))
	for _, si := range sst.SI {
		if si.T != nil {
			strs = append(strs, si.T.Value)
			continue
		}
		var b strings.Builder
		for _, r := range si.R {
			b.WriteString(r.T)
		}
		strs = append(strs, b.String())
	}
	w.shared = strs
	return w.shared
}

type xmlCellValue struct {
	Value string `xml:",chardata"`
}

type xmlInlineStr struct {
	T string `xml:"t"`
}

type xmlCell struct {
	R  string        `xml:"r,attr"`
	T  string        `xml:"t,attr"`
	V  *xmlCellValue `xml:"v"`
	IS *xmlInlineStr `xml:"is"`
}

type xmlWorksheet struct {
	Cols struct {
		Col []struct {
			Min    int    `xml:"min,attr"`
			Max    int    `xml:"max,attr"`
			Hidden string `xml:"hidden,attr"`
		} `xml:"col"`
	} `xml:"cols"`
	SheetData struct {
		Row []struct {
			R      string    `xml:"r,attr"`
			Hidden string    `xml:"hidden,attr"`
			C      []xmlCell `xml:"c"`
		} `xml:"row"`
	} `xml:"sheetData"`
}

func (w *RawWorkbook) worksheet(sheetName string) (*xmlWorksheet, error) {
	path, err := w.SheetXMLPath(sheetName)
	if err != nil {
		return nil, err
	}
	data, err := w.part(path)
	if err != nil {
		return nil, err
	}
	var ws xmlWorksheet
	if err := xml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("parse worksheet %q: %w", sheetName, err)
	}
	return &ws, nil
}

// HiddenRows returns the 1-indexed row numbers flagged hidden on a sheet.
// Lookup failures degrade to an empty set.
func (w *RawWorkbook) HiddenRows(sheetName string) map[int]struct{} {
	hidden := make(map[int]struct{})
	ws, err := w.worksheet(sheetName)
	if err != nil {
		log.Warn().Err(err).Str("sheet", sheetName).Msg("could not read hidden rows")
		return hidden
	}
	for _, row := range ws.SheetData.Row {
		if !isHiddenFlag(row.Hidden) {
			continue
		}
		if n, err := strconv.Atoi(row.R); err == nil {
			hidden[n] = struct{}{}
		}
	}
	return hidden
}

// HiddenColumns returns the 1-indexed column numbers covered by any hidden
// <col> range, with [min,max] expanded inclusively.
func (w *RawWorkbook) HiddenColumns(sheetName string) map[int]struct{} {
	hidden := make(map[int]struct{})
	ws, err := w.worksheet(sheetName)
	if err != nil {
		log.Warn().Err(err).Str("sheet", sheetName).Msg("could not read hidden columns")
		return hidden
	}
	for _, col := range ws.Cols.Col {
		if !isHiddenFlag(col.Hidden) {
			continue
		}
		for c := col.Min; c <= col.Max; c++ {
			hidden[c] = struct{}{}
		}
	}
	return hidden
}

func isHiddenFlag(v string) bool {
	return v == "1" || v == "true"
}

// CellValues extracts the typed value of every non-empty cell on a sheet.
// The map is sparse: absence means "no value", not zero. Extraction failures
// degrade to an empty map so one bad sheet does not abort the run.
func (w *RawWorkbook) CellValues(sheetName string) map[CellRef]model.CellValue {
	values := make(map[CellRef]model.CellValue)

	ws, err := w.worksheet(sheetName)
	if err != nil {
		log.Error().Err(err).Str("sheet", sheetName).Msg("could not extract cell values")
		return values
	}
	shared := w.SharedStrings()

	for _, row := range ws.SheetData.Row {
		rowNum, err := strconv.Atoi(row.R)
		if err != nil {
			log.Warn().Str("sheet", sheetName).Str("row", row.R).Msg("invalid row number; skipping row")
			continue
		}

		for _, c := range row.C {
			if c.R == "" {
				continue
			}
			ref, err := ParseCellRef(c.R)
			if err != nil {
				log.Warn().Str("sheet", sheetName).Str("cell", c.R).Msg("invalid cell reference; skipping cell")
				continue
			}
			ref.Row = rowNum

			value, ok := decodeCell(c, shared, sheetName)
			if !ok {
				continue
			}
			values[ref] = value
		}
	}

	return values
}

func decodeCell(c xmlCell, shared []string, sheetName string) (model.CellValue, bool) {
	if c.T == "inlineStr" {
		if c.IS == nil {
			return model.CellValue{}, false
		}
		return model.Text(c.IS.T), true
	}

	if c.V == nil {
		return model.CellValue{}, false
	}
	raw := c.V.Value

	if _, isErr := errorSentinels[raw]; isErr {
		return model.Number(0), true
	}

	switch c.T {
	case "s":
		idx, err := strconv.Atoi(raw)
		if err != nil {
			log.Warn().Str("sheet", sheetName).Str("cell", c.R).Str("value", raw).
				Msg("invalid shared string index")
			return model.CellValue{}, false
		}
		if idx < 0 || idx >= len(shared) {
			log.Warn().Str("sheet", sheetName).Str("cell", c.R).Int("index", idx).
				Msg("shared string index out of bounds")
			return model.CellValue{}, false
		}
		return model.Text(shared[idx]), true
	case "b":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return model.Text(raw), true
		}
		return model.Boolean(n != 0), true
	case "str":
		return model.Text(raw), true
	case "", "n":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			// Keep the raw text when the numeric payload does not parse.
			return model.Text(raw), true
		}
		return model.Number(f), true
	default:
		return model.Text(raw), true
	}
}
