package store

import (
	"fmt"

	"github.com/jadonco1010/PPTAutomation/internal/model"
)

// CreateRun records a run that has just started and returns its id.
func (s *Store) CreateRun(sourceFilename string, fiscalYear int, quarter, monthInQuarter string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO runs (source_filename, fiscal_year, quarter, month_in_quarter, status)
		VALUES (?, ?, ?, ?, 'processing')
	`, sourceFilename, fiscalYear, quarter, monthInQuarter)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	return id, nil
}

// FinishRun writes the terminal state of a run.
func (s *Store) FinishRun(id int64, outputFilename string, complete bool, missingRoles string, status model.RunStatus, errorMessage string, durationMs int64) error {
	completeFlag := 0
	if complete {
		completeFlag = 1
	}
	_, err := s.db.Exec(`
		UPDATE runs SET
			output_filename = ?,
			complete = ?,
			missing_roles = ?,
			status = ?,
			error_message = ?,
			duration_ms = ?
		WHERE id = ?
	`, outputFilename, completeFlag, missingRoles, string(status), errorMessage, durationMs, id)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]model.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, source_filename, output_filename, fiscal_year, quarter,
		       month_in_quarter, complete, missing_roles, status, error_message,
		       duration_ms, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []model.RunRecord
	for rows.Next() {
		var rec model.RunRecord
		var complete int
		var status string
		if err := rows.Scan(&rec.ID, &rec.SourceFilename, &rec.OutputFilename,
			&rec.FiscalYear, &rec.Quarter, &rec.MonthInQuarter, &complete,
			&rec.MissingRoles, &status, &rec.ErrorMessage, &rec.DurationMs,
			&rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.Complete = complete != 0
		rec.Status = model.RunStatus(status)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return out, nil
}
