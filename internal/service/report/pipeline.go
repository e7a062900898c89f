// Package report orchestrates one generation run: resolve the fiscal
// period, pick the source sheets, preprocess the workbook, extract the
// region tables and fill the slide template.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jadonco1010/PPTAutomation/internal/config"
	"github.com/jadonco1010/PPTAutomation/internal/fiscal"
	"github.com/jadonco1010/PPTAutomation/internal/model"
	"github.com/jadonco1010/PPTAutomation/internal/service/deck"
	"github.com/jadonco1010/PPTAutomation/internal/service/excel"
	"github.com/jadonco1010/PPTAutomation/internal/store"
)

// Pipeline runs report generation end to end. The clock is injectable so a
// run against a fixed date is reproducible.
type Pipeline struct {
	cfg     *config.AppConfig
	dataDir string
	store   *store.Store
	now     func() time.Time
}

// New builds a pipeline. store may be nil, in which case runs are not
// recorded.
func New(cfg *config.AppConfig, dataDir string, st *store.Store) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		dataDir: dataDir,
		store:   st,
		now:     time.Now,
	}
}

// WithClock replaces the pipeline clock.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Result describes one finished run.
type Result struct {
	OutputPath     string
	OutputFilename string
	Label          fiscal.Label
	Complete       bool
	Missing        []model.SheetRole
}

// Run generates a presentation from the uploaded workbook. src is the raw
// upload body; sourceFilename is the client's original filename, recorded
// for the run history only.
func (p *Pipeline) Run(src io.Reader, sourceFilename string) (*Result, error) {
	started := p.now()
	startMonth := time.Month(p.cfg.Report.FiscalStartMonth)
	label := fiscal.Resolve(started, startMonth)

	runID := p.recordStart(sourceFilename, label)

	result, err := p.run(src, label, started, startMonth)
	p.recordFinish(runID, result, started, err)
	return result, err
}

func (p *Pipeline) run(src io.Reader, label fiscal.Label, started time.Time, startMonth time.Month) (*Result, error) {
	workDir := filepath.Join(os.TempDir(), "pptautomation", uuid.NewString())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	uploadPath := filepath.Join(workDir, "upload.xlsx")
	if err := saveUpload(src, uploadPath); err != nil {
		return nil, err
	}

	raw, err := excel.OpenRaw(uploadPath)
	if err != nil {
		return nil, err
	}

	res := excel.ResolveSheets(raw.SheetNames(), label)
	if !res.Complete() {
		log.WithLevel(zerolog.FatalLevel).
			Strs("missing", roleNames(res.Missing)).
			Msg("sheet coverage incomplete; continuing with partial data")
	}
	if len(res.Sheets) == 0 {
		return nil, fmt.Errorf("no source sheets matched fiscal period %s %s", label.Quarter, label.MonthInQuarter)
	}

	prePath := filepath.Join(workDir, "preprocessed.xlsx")
	if err := excel.Preprocess(raw, prePath, res); err != nil {
		return nil, err
	}

	// Re-resolve against the preprocessed file: sheets skipped as empty
	// during preprocessing must not leave dangling roles.
	preRaw, err := excel.OpenRaw(prePath)
	if err != nil {
		return nil, err
	}
	preRes := excel.ResolveSheets(preRaw.SheetNames(), label)

	tables, err := excel.LoadTables(prePath, preRes)
	if err != nil {
		return nil, err
	}

	// The on-disk name is unique per request; two uploads in the same
	// fiscal month must not overwrite each other. The download carries the
	// fiscal filename via the attachment header.
	outputFilename := label.FilenamePart() + " " + p.cfg.Report.OutputSuffix + ".pptx"
	outputPath := filepath.Join(p.dataDir, "output", uuid.NewString()+".pptx")

	labels := fiscal.DateLabels(started, startMonth)
	if err := deck.Fill(p.cfg.Report.TemplatePath, outputPath, tables, labels); err != nil {
		return nil, err
	}

	return &Result{
		OutputPath:     outputPath,
		OutputFilename: outputFilename,
		Label:          label,
		Complete:       res.Complete(),
		Missing:        res.Missing,
	}, nil
}

func saveUpload(src io.Reader, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return fmt.Errorf("save upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	return nil
}

func roleNames(roles []model.SheetRole) []string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return names
}

func (p *Pipeline) recordStart(sourceFilename string, label fiscal.Label) int64 {
	if p.store == nil {
		return 0
	}
	id, err := p.store.CreateRun(sourceFilename, label.Year, label.Quarter, label.MonthInQuarter)
	if err != nil {
		log.Error().Err(err).Msg("failed to record run start")
		return 0
	}
	return id
}

func (p *Pipeline) recordFinish(runID int64, result *Result, started time.Time, runErr error) {
	if p.store == nil || runID == 0 {
		return
	}

	durationMs := p.now().Sub(started).Milliseconds()
	if runErr != nil {
		if err := p.store.FinishRun(runID, "", false, "", model.RunStatusFailed, runErr.Error(), durationMs); err != nil {
			log.Error().Err(err).Int64("run", runID).Msg("failed to record run failure")
		}
		return
	}

	missing := strings.Join(roleNames(result.Missing), ",")
	if err := p.store.FinishRun(runID, result.OutputFilename, result.Complete, missing, model.RunStatusCompleted, "", durationMs); err != nil {
		log.Error().Err(err).Int64("run", runID).Msg("failed to record run completion")
	}
}
