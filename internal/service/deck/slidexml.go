package deck

import (
	"regexp"
	"strconv"
	"strings"
)

// Slide parts are edited as text: the filler only ever rewrites run text,
// transform attributes and fill elements, and string-level surgery keeps the
// rest of the markup byte-identical. DrawingML shape elements never nest
// inside an element of their own name, so plain open/close scanning is
// enough to delimit blocks.

var (
	paragraphRe = regexp.MustCompile(`(?s)<a:p>.*?</a:p>`)
	runRe       = regexp.MustCompile(`(?s)<a:r>.*?</a:r>`)
	runTextRe   = regexp.MustCompile(`(?s)<a:t[^>]*>(.*?)</a:t>`)
	emptyTextRe = regexp.MustCompile(`<a:t[^>]*/>`)

	shapeNameRe = regexp.MustCompile(`<p:cNvPr\b[^>]*?\bname="([^"]*)"`)
	offXRe      = regexp.MustCompile(`(<a:off\b[^>]*?\bx=")(-?\d+)(")`)
	extCxRe     = regexp.MustCompile(`(<a:ext\b[^>]*?\bcx=")(-?\d+)(")`)

	solidFillRe = regexp.MustCompile(`(?s)<a:solidFill>.*?</a:solidFill>`)
	noFillRe    = regexp.MustCompile(`<a:noFill\s*/>`)
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

var xmlUnescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

func escapeXML(s string) string   { return xmlEscaper.Replace(s) }
func unescapeXML(s string) string { return xmlUnescaper.Replace(s) }

// runText returns the unescaped text content of one <a:r> block.
func runText(run string) string {
	m := runTextRe.FindStringSubmatch(run)
	if m == nil {
		return ""
	}
	return unescapeXML(m[1])
}

// setRunText replaces the text content of one <a:r> block.
func setRunText(run, text string) string {
	escaped := escapeXML(text)
	replaced := false

	out := runTextRe.ReplaceAllStringFunc(run, func(match string) string {
		if replaced {
			return match
		}
		replaced = true
		open := match[:strings.Index(match, ">")+1]
		return open + escaped + "</a:t>"
	})
	if replaced {
		return out
	}

	out = emptyTextRe.ReplaceAllStringFunc(run, func(match string) string {
		if replaced {
			return match
		}
		replaced = true
		return "<a:t>" + escaped + "</a:t>"
	})
	if replaced {
		return out
	}

	// Run without a text element; add one at the end.
	if idx := strings.LastIndex(run, "</a:r>"); idx >= 0 {
		return run[:idx] + "<a:t>" + escaped + "</a:t>" + run[idx:]
	}
	return run
}

// mapParagraphs applies fn to the joined run text of every paragraph. When
// fn reports a change the paragraph is collapsed to its first run carrying
// the full new text; later runs are dropped. Formatting beyond the first
// run is not preserved, which the date-tag vocabulary tolerates.
func mapParagraphs(slideXML string, fn func(text string) (string, bool)) string {
	return paragraphRe.ReplaceAllStringFunc(slideXML, func(para string) string {
		spans := runRe.FindAllStringIndex(para, -1)
		if len(spans) == 0 {
			return para
		}

		var full strings.Builder
		for _, span := range spans {
			full.WriteString(runText(para[span[0]:span[1]]))
		}

		newText, changed := fn(full.String())
		if !changed {
			return para
		}

		var b strings.Builder
		b.WriteString(para[:spans[0][0]])
		b.WriteString(setRunText(para[spans[0][0]:spans[0][1]], newText))
		last := spans[0][1]
		for _, span := range spans[1:] {
			b.WriteString(para[last:span[0]])
			last = span[1]
		}
		b.WriteString(para[last:])
		return b.String()
	})
}

// mapRuns applies fn to the text of every run in place, preserving
// per-run formatting. Table cell text shares the same run markup, so this
// covers text boxes and tables alike.
func mapRuns(slideXML string, fn func(text string) (string, bool)) string {
	return runRe.ReplaceAllStringFunc(slideXML, func(run string) string {
		text := runText(run)
		newText, changed := fn(text)
		if !changed {
			return run
		}
		return setRunText(run, newText)
	})
}

// blockSpans locates every <tag>...</tag> block of the named element,
// returned as [start, end) offsets into the XML. The open tag may carry
// attributes; the element name must end at '>' or a space, so "p:sp" does
// not collide with "p:spPr".
func blockSpans(slideXML, tag string) [][2]int {
	openTag := "<" + tag
	closeTag := "</" + tag + ">"

	var spans [][2]int
	offset := 0
	for {
		rel := strings.Index(slideXML[offset:], openTag)
		if rel < 0 {
			break
		}
		start := offset + rel
		next := start + len(openTag)
		if next >= len(slideXML) || (slideXML[next] != '>' && slideXML[next] != ' ') {
			offset = next
			continue
		}
		endRel := strings.Index(slideXML[start:], closeTag)
		if endRel < 0 {
			break
		}
		end := start + endRel + len(closeTag)
		spans = append(spans, [2]int{start, end})
		offset = end
	}
	return spans
}

// shapeName extracts the non-visual name of a shape block.
func shapeName(block string) string {
	m := shapeNameRe.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return unescapeXML(m[1])
}

func shapeOffsetX(block string) (int64, bool) {
	return firstInt(offXRe, block)
}

func shapeExtentCx(block string) (int64, bool) {
	return firstInt(extCxRe, block)
}

func firstInt(re *regexp.Regexp, block string) (int64, bool) {
	m := re.FindStringSubmatch(block)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func setFirstAttr(re *regexp.Regexp, block string, value int64) string {
	done := false
	return re.ReplaceAllStringFunc(block, func(match string) string {
		if done {
			return match
		}
		done = true
		m := re.FindStringSubmatch(match)
		return m[1] + strconv.FormatInt(value, 10) + m[3]
	})
}

func setShapeOffsetX(block string, x int64) string {
	return setFirstAttr(offXRe, block, x)
}

func setShapeExtentCx(block string, cx int64) string {
	return setFirstAttr(extCxRe, block, cx)
}

// setShapeFill replaces (or inserts) a solid fill on the shape's spPr. The
// insert point honors the spPr child order: after the preset geometry when
// present, else after the transform, else directly after the spPr open tag.
func setShapeFill(block, rgbHex string) string {
	fill := `<a:solidFill><a:srgbClr val="` + rgbHex + `"/></a:solidFill>`

	sprStart := strings.Index(block, "<p:spPr")
	sprEnd := strings.Index(block, "</p:spPr>")
	if sprStart < 0 || sprEnd < 0 {
		return block
	}
	spPr := block[sprStart:sprEnd]

	switch {
	case solidFillRe.MatchString(spPr):
		done := false
		spPr = solidFillRe.ReplaceAllStringFunc(spPr, func(match string) string {
			if done {
				return match
			}
			done = true
			return fill
		})
	case noFillRe.MatchString(spPr):
		spPr = noFillRe.ReplaceAllString(spPr, fill)
	default:
		anchor := strings.Index(spPr, "</a:prstGeom>")
		anchorLen := len("</a:prstGeom>")
		if anchor < 0 {
			anchor = strings.Index(spPr, "</a:xfrm>")
			anchorLen = len("</a:xfrm>")
		}
		if anchor < 0 {
			anchor = strings.Index(spPr, ">")
			anchorLen = 1
		}
		if anchor < 0 {
			return block
		}
		spPr = spPr[:anchor+anchorLen] + fill + spPr[anchor+anchorLen:]
	}

	return block[:sprStart] + spPr + block[sprEnd:]
}
