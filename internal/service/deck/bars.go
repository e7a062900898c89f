package deck

import (
	"math"
	"regexp"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Percentage bars are rectangle shapes named bar_<prefix><index>, wired to
// the same table cells as value tags. Each bar's template geometry is
// captured before any text substitution, then the bar is re-located by name
// and resized after the text passes have rewritten the slide.
var barNameRe = regexp.MustCompile(`^bar_([A-Za-z]{1,2})(\d+)$`)

const (
	barFillPositive = "63C384"
	barFillNegative = "FF0000"
)

type barShape struct {
	slidePath string
	name      string
	prefix    string
	index     int
	origLeft  int64
	origWidth int64
}

// captureBars scans every slide for bar-named shapes and records their
// template geometry. Bar names on tables or grouped shapes cannot be
// resized here and are reported.
func captureBars(p *Package, slides []Slide) ([]barShape, error) {
	var bars []barShape
	for _, slide := range slides {
		data, err := p.ReadPart(slide.Path)
		if err != nil {
			return nil, err
		}
		xml := string(data)

		for _, span := range blockSpans(xml, "p:sp") {
			block := xml[span[0]:span[1]]
			name := shapeName(block)
			m := barNameRe.FindStringSubmatch(name)
			if m == nil {
				continue
			}

			left, okLeft := shapeOffsetX(block)
			width, okWidth := shapeExtentCx(block)
			if !okLeft || !okWidth {
				log.Warn().Str("slide", slide.Path).Str("shape", name).
					Msg("bar shape has no transform; skipping")
				continue
			}

			index, _ := strconv.Atoi(m[2])
			bars = append(bars, barShape{
				slidePath: slide.Path,
				name:      name,
				prefix:    m[1],
				index:     index,
				origLeft:  left,
				origWidth: width,
			})
		}

		warnUnsupportedBars(xml, slide.Path, "p:graphicFrame")
		warnUnsupportedBars(xml, slide.Path, "p:grpSp")
	}
	return bars, nil
}

func warnUnsupportedBars(xml, slidePath, tag string) {
	for _, span := range blockSpans(xml, tag) {
		name := shapeName(xml[span[0]:span[1]])
		if barNameRe.MatchString(name) {
			log.Warn().Str("slide", slidePath).Str("shape", name).
				Msg("bar name on unsupported shape type; ignored")
		}
	}
}

// applyBars resizes, recolors or removes each captured bar according to its
// cell value. Shapes are re-located by name because earlier passes have
// shifted byte offsets.
func applyBars(p *Package, bars []barShape, index *TableIndex) error {
	for _, bar := range bars {
		cell, found := index.Lookup(bar.prefix, bar.index)
		if !found || !cell.IsNumeric() {
			log.Warn().Str("slide", bar.slidePath).Str("shape", bar.name).
				Msg("bar has no numeric cell value; left unchanged")
			continue
		}
		v := cell.Float()

		data, err := p.ReadPart(bar.slidePath)
		if err != nil {
			return err
		}
		xml := string(data)

		span, ok := findShapeByName(xml, bar.name)
		if !ok {
			log.Warn().Str("slide", bar.slidePath).Str("shape", bar.name).
				Msg("bar shape vanished before update; skipping")
			continue
		}

		if v == 0 {
			xml = xml[:span[0]] + xml[span[1]:]
			p.WritePart(bar.slidePath, []byte(xml))
			continue
		}

		pct := math.Min(math.Abs(v), 1)
		block := xml[span[0]:span[1]]
		// A bar at full width renders green regardless of sign; the red
		// negative treatment only applies to partial bars.
		fill := barFillPositive
		if pct >= 1 {
			block = setShapeExtentCx(block, bar.origWidth)
		} else {
			block = setShapeExtentCx(block, int64(math.Round(float64(bar.origWidth)*pct)))
			if v < 0 {
				fill = barFillNegative
			}
		}
		block = setShapeOffsetX(block, bar.origLeft)
		block = setShapeFill(block, fill)

		xml = xml[:span[0]] + block + xml[span[1]:]
		p.WritePart(bar.slidePath, []byte(xml))
	}
	return nil
}

func findShapeByName(xml, name string) ([2]int, bool) {
	for _, span := range blockSpans(xml, "p:sp") {
		if shapeName(xml[span[0]:span[1]]) == name {
			return span, true
		}
	}
	return [2]int{}, false
}
