package report

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jadonco1010/PPTAutomation/internal/config"
)

func testConfig(t *testing.T, templatePath string) (*config.AppConfig, string) {
	t.Helper()

	dataDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dataDir, "output"), 0755); err != nil {
		t.Fatalf("create output dir: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Report.TemplatePath = templatePath
	cfg.Data.DataDir = dataDir
	return cfg, dataDir
}

func buildSourceWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	if _, err := f.NewSheet("Q1 Commit"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	if err := f.SetCellValue("Q1 Commit", "C3", 2500000); err != nil {
		t.Fatalf("set cell: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func buildTemplate(t *testing.T) string {
	t.Helper()

	slide := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:sp><p:nvSpPr><p:cNvPr id="2" name="TextBox 1"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:rPr lang="en-US"/><a:t>{{Title}}: {{a1}}</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`

	parts := map[string]string{
		"ppt/presentation.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><p:sldIdLst><p:sldId id="256" r:id="rId1"/></p:sldIdLst></p:presentation>`,
		"ppt/_rels/presentation.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/></Relationships>`,
		"ppt/slides/slide1.xml": slide,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close template: %v", err)
	}

	path := filepath.Join(t.TempDir(), "template.pptx")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return path
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	cfg, _ := testConfig(t, buildTemplate(t))
	pipeline := New(cfg, cfg.Data.DataDir, nil).WithClock(func() time.Time {
		return time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	})

	result, err := pipeline.Run(bytes.NewReader(buildSourceWorkbook(t)), "forecast.xlsx")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got, want := result.OutputFilename, "M1 Q1FY27 PnL Review.pptx"; got != want {
		t.Fatalf("output filename = %q, want %q", got, want)
	}
	if result.Complete {
		t.Fatal("single-sheet workbook should report incomplete coverage")
	}
	if got, want := len(result.Missing), 3; got != want {
		t.Fatalf("missing roles = %d, want %d: %v", got, want, result.Missing)
	}

	data, err := os.ReadFile(result.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open output package: %v", err)
	}
	var slide string
	for _, part := range zr.File {
		if part.Name != "ppt/slides/slide1.xml" {
			continue
		}
		rc, err := part.Open()
		if err != nil {
			t.Fatalf("open slide: %v", err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			t.Fatalf("read slide: %v", err)
		}
		rc.Close()
		slide = buf.String()
	}

	// First commit region is C3; 2.5M renders under the millions rule.
	if !strings.Contains(slide, "M1 &amp; Q1 Fcst: 2.5") {
		t.Fatalf("slide not filled: %q", slide)
	}
}

func TestPipeline_Run_UniqueOutputPaths(t *testing.T) {
	t.Parallel()

	cfg, _ := testConfig(t, buildTemplate(t))
	pipeline := New(cfg, cfg.Data.DataDir, nil).WithClock(func() time.Time {
		return time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	})

	source := buildSourceWorkbook(t)

	first, err := pipeline.Run(bytes.NewReader(source), "forecast.xlsx")
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := pipeline.Run(bytes.NewReader(source), "forecast.xlsx")
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	// Same fiscal month, same download name, but each run must land on its
	// own file so concurrent requests cannot serve each other's deck.
	if first.OutputFilename != second.OutputFilename {
		t.Fatalf("download names differ: %q vs %q", first.OutputFilename, second.OutputFilename)
	}
	if first.OutputPath == second.OutputPath {
		t.Fatalf("output path reused across runs: %q", first.OutputPath)
	}
	for _, path := range []string{first.OutputPath, second.OutputPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("output %s missing: %v", path, err)
		}
	}
}

func TestPipeline_Run_NoMatchingSheets(t *testing.T) {
	t.Parallel()

	cfg, _ := testConfig(t, buildTemplate(t))
	pipeline := New(cfg, cfg.Data.DataDir, nil).WithClock(func() time.Time {
		return time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	})

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	_, err := pipeline.Run(bytes.NewReader(buf.Bytes()), "empty.xlsx")
	if err == nil {
		t.Fatal("expected error for workbook with no matching sheets")
	}
}
