// Package handlers holds the gin handlers for the upload flow and the
// run-history API.
package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jadonco1010/PPTAutomation/internal/service/report"
	"github.com/jadonco1010/PPTAutomation/internal/store"
)

const pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// Handler bundles the dependencies the HTTP handlers need.
type Handler struct {
	pipeline *report.Pipeline
	store    *store.Store
}

// New creates a handler set.
func New(pipeline *report.Pipeline, st *store.Store) *Handler {
	return &Handler{pipeline: pipeline, store: st}
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>PnL Deck Generator</title></head>
<body>
  <h1>PnL Deck Generator</h1>
  <p>Upload the forecast workbook to generate the review deck.</p>
  <form action="/upload" method="post" enctype="multipart/form-data">
    <input type="file" name="file" accept=".xlsx,.xlsm" required>
    <button type="submit">Generate</button>
  </form>
</body>
</html>`

// Index serves the upload form.
// GET /
func (h *Handler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

// Upload accepts a workbook and responds with the generated presentation.
// POST /upload
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xlsm" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected an .xlsx or .xlsm workbook"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer f.Close()

	result, err := h.pipeline.Run(f, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Str("file", fileHeader.Filename).Msg("generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", pptxContentType)
	c.FileAttachment(result.OutputPath, result.OutputFilename)
}

// ListRuns returns the most recent generation runs.
// GET /api/runs?limit=N
func (h *Handler) ListRuns(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	runs, err := h.store.ListRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// Health reports liveness.
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
