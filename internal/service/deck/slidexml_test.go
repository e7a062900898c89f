package deck

import (
	"strings"
	"testing"
)

func TestEscapeRoundTrip(t *testing.T) {
	t.Parallel()

	in := `a < b & "c" > 'd'`
	if got := unescapeXML(escapeXML(in)); got != in {
		t.Fatalf("round trip = %q, want %q", got, in)
	}
}

func TestRunText(t *testing.T) {
	t.Parallel()

	run := `<a:r><a:rPr lang="en-US"/><a:t>P&amp;L</a:t></a:r>`
	if got, want := runText(run), "P&L"; got != want {
		t.Fatalf("runText = %q, want %q", got, want)
	}
	if got := runText(`<a:r><a:rPr/></a:r>`); got != "" {
		t.Fatalf("runText without text element = %q, want empty", got)
	}
}

func TestSetRunText(t *testing.T) {
	t.Parallel()

	run := `<a:r><a:rPr b="1"/><a:t>old</a:t></a:r>`
	got := setRunText(run, "a < b")
	want := `<a:r><a:rPr b="1"/><a:t>a &lt; b</a:t></a:r>`
	if got != want {
		t.Fatalf("setRunText = %q, want %q", got, want)
	}

	empty := `<a:r><a:rPr/><a:t/></a:r>`
	got = setRunText(empty, "x")
	if !strings.Contains(got, "<a:t>x</a:t>") {
		t.Fatalf("setRunText on empty text element = %q", got)
	}

	bare := `<a:r><a:rPr/></a:r>`
	got = setRunText(bare, "x")
	if !strings.Contains(got, "<a:t>x</a:t>") {
		t.Fatalf("setRunText on bare run = %q", got)
	}
}

func TestMapParagraphs_CollapsesSplitRuns(t *testing.T) {
	t.Parallel()

	para := `<a:p><a:r><a:rPr i="1"/><a:t>{{Quarter</a:t></a:r><a:r><a:t>Label}}</a:t></a:r></a:p>`
	got := mapParagraphs(para, func(text string) (string, bool) {
		if text != "{{QuarterLabel}}" {
			t.Fatalf("joined text = %q", text)
		}
		return "Q1", true
	})

	want := `<a:p><a:r><a:rPr i="1"/><a:t>Q1</a:t></a:r></a:p>`
	if got != want {
		t.Fatalf("collapsed paragraph = %q, want %q", got, want)
	}
}

func TestMapParagraphs_UnchangedStaysVerbatim(t *testing.T) {
	t.Parallel()

	para := `<a:p><a:r><a:t>one</a:t></a:r><a:r><a:t>two</a:t></a:r></a:p>`
	got := mapParagraphs(para, func(string) (string, bool) { return "", false })
	if got != para {
		t.Fatalf("untouched paragraph changed: %q", got)
	}
}

func TestMapRuns_PreservesOtherRuns(t *testing.T) {
	t.Parallel()

	xml := `<a:p><a:r><a:t>keep</a:t></a:r><a:r><a:t>swap</a:t></a:r></a:p>`
	got := mapRuns(xml, func(text string) (string, bool) {
		if text == "swap" {
			return "done", true
		}
		return "", false
	})
	want := `<a:p><a:r><a:t>keep</a:t></a:r><a:r><a:t>done</a:t></a:r></a:p>`
	if got != want {
		t.Fatalf("mapRuns = %q, want %q", got, want)
	}
}

func TestBlockSpans(t *testing.T) {
	t.Parallel()

	xml := `<p:spTree><p:sp><p:spPr>a</p:spPr></p:sp><p:sp>b</p:sp></p:spTree>`
	spans := blockSpans(xml, "p:sp")
	if got, want := len(spans), 2; got != want {
		t.Fatalf("span count = %d, want %d", got, want)
	}
	if got, want := xml[spans[0][0]:spans[0][1]], `<p:sp><p:spPr>a</p:spPr></p:sp>`; got != want {
		t.Fatalf("first span = %q, want %q", got, want)
	}
	if got, want := xml[spans[1][0]:spans[1][1]], `<p:sp>b</p:sp>`; got != want {
		t.Fatalf("second span = %q, want %q", got, want)
	}
}

func TestBlockSpans_OpenTagWithAttributes(t *testing.T) {
	t.Parallel()

	xml := `<p:spTree><p:sp useBgFill="1"><p:spPr>a</p:spPr></p:sp></p:spTree>`
	spans := blockSpans(xml, "p:sp")
	if got, want := len(spans), 1; got != want {
		t.Fatalf("span count = %d, want %d", got, want)
	}
	if got, want := xml[spans[0][0]:spans[0][1]], `<p:sp useBgFill="1"><p:spPr>a</p:spPr></p:sp>`; got != want {
		t.Fatalf("span = %q, want %q", got, want)
	}

	// The name must end at '>' or a space; p:spPr blocks are not p:sp.
	if got := len(blockSpans(`<p:spPr>x</p:spPr>`, "p:sp")); got != 0 {
		t.Fatalf("p:spPr matched as p:sp, %d spans", got)
	}
}

func TestShapeGeometry(t *testing.T) {
	t.Parallel()

	block := `<p:sp><p:spPr><a:xfrm><a:off x="914400" y="0"/><a:ext cx="457200" cy="91440"/></a:xfrm></p:spPr></p:sp>`

	x, ok := shapeOffsetX(block)
	if !ok || x != 914400 {
		t.Fatalf("shapeOffsetX = %d, %v", x, ok)
	}
	cx, ok := shapeExtentCx(block)
	if !ok || cx != 457200 {
		t.Fatalf("shapeExtentCx = %d, %v", cx, ok)
	}

	block = setShapeExtentCx(block, 137160)
	block = setShapeOffsetX(block, 1000)
	if !strings.Contains(block, `cx="137160"`) || !strings.Contains(block, `x="1000"`) {
		t.Fatalf("geometry not updated: %q", block)
	}
	if !strings.Contains(block, `cy="91440"`) || !strings.Contains(block, `y="0"`) {
		t.Fatalf("unrelated geometry changed: %q", block)
	}
}

func TestSetShapeFill(t *testing.T) {
	t.Parallel()

	withFill := `<p:sp><p:spPr><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:solidFill><a:srgbClr val="000000"/></a:solidFill></p:spPr></p:sp>`
	got := setShapeFill(withFill, "FF0000")
	if !strings.Contains(got, `val="FF0000"`) || strings.Contains(got, `val="000000"`) {
		t.Fatalf("fill not replaced: %q", got)
	}

	noFill := `<p:sp><p:spPr><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:sp>`
	got = setShapeFill(noFill, "63C384")
	if !strings.Contains(got, `</a:prstGeom><a:solidFill><a:srgbClr val="63C384"/></a:solidFill>`) {
		t.Fatalf("fill not inserted after geometry: %q", got)
	}

	explicitNoFill := `<p:sp><p:spPr><a:noFill/></p:spPr></p:sp>`
	got = setShapeFill(explicitNoFill, "63C384")
	if strings.Contains(got, "<a:noFill/>") || !strings.Contains(got, `val="63C384"`) {
		t.Fatalf("noFill not replaced: %q", got)
	}
}

func TestShapeName(t *testing.T) {
	t.Parallel()

	block := `<p:sp><p:nvSpPr><p:cNvPr id="4" name="bar_a12"/><p:cNvSpPr/></p:nvSpPr></p:sp>`
	if got, want := shapeName(block), "bar_a12"; got != want {
		t.Fatalf("shapeName = %q, want %q", got, want)
	}
}
