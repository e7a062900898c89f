package model

import "time"

// RunStatus is the terminal state of one generation run.
type RunStatus string

const (
	RunStatusProcessing RunStatus = "processing"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

// RunRecord is one row of the generation history.
type RunRecord struct {
	ID             int64     `json:"id"`
	SourceFilename string    `json:"sourceFilename"`
	OutputFilename string    `json:"outputFilename"`
	FiscalYear     int       `json:"fiscalYear"`
	Quarter        string    `json:"quarter"`
	MonthInQuarter string    `json:"monthInQuarter"`
	Complete       bool      `json:"complete"`
	MissingRoles   string    `json:"missingRoles"`
	Status         RunStatus `json:"status"`
	ErrorMessage   string    `json:"errorMessage"`
	DurationMs     int64     `json:"durationMs"`
	CreatedAt      time.Time `json:"createdAt"`
}
