package apigateway

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"whisper-wpm-eval/internal/dataset"
	"whisper-wpm-eval/internal/resultstore"
)

type handlers struct {
	dataset *dataset.Store
	results *resultstore.Store
}

func (h *handlers) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listRunsHandler returns the timestamps of all saved evaluation runs,
// oldest first.
func (h *handlers) listRunsHandler(c *gin.Context) {
	runs, err := h.results.ListRuns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list runs: " + err.Error()})
		return
	}
	if runs == nil {
		runs = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (h *handlers) getRunSummaryHandler(c *gin.Context) {
	timestamp := c.Param("timestamp")

	summary, err := h.results.LoadSummary(timestamp)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Run " + timestamp + " not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load summary: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *handlers) getRunResultsHandler(c *gin.Context) {
	timestamp := c.Param("timestamp")

	results, err := h.results.LoadResults(timestamp)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Run " + timestamp + " not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load results: " + err.Error()})
		return
	}
	if results == nil {
		results = []resultstore.EvaluationResult{}
	}
	c.JSON(http.StatusOK, results)
}

// listRecordingsHandler returns the dataset metadata records. A missing
// metadata file means an empty dataset, not an error.
func (h *handlers) listRecordingsHandler(c *gin.Context) {
	records, err := h.dataset.LoadMetadata()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusOK, []dataset.RecordingMetadata{})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dataset metadata: " + err.Error()})
		return
	}
	if records == nil {
		records = []dataset.RecordingMetadata{}
	}
	c.JSON(http.StatusOK, records)
}
