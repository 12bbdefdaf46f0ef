package jobmanagement

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the job service over HTTP.
type Handlers struct {
	Service *JobService
}

// CreateJobRequest defines the payload for starting an evaluation job.
type CreateJobRequest struct {
	Name string `json:"name"`
}

// CreateJobHandler runs a full evaluation over the dataset. The run is
// synchronous, so the response carries the finished job including its
// summary.
func (h *Handlers) CreateJobHandler(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	job, err := h.Service.CreateAndRunJob(c.Request.Context(), req.Name)
	if err != nil {
		if job != nil && job.Status == JobStatusFailed {
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Job initiated but failed during execution.",
				"job":     job,
				"detail":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run evaluation job: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJobHandler retrieves a job by its run timestamp.
func (h *Handlers) GetJobHandler(c *gin.Context) {
	id := c.Param("id")

	job, err := h.Service.GetJob(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists the jobs started by this server process.
func (h *Handlers) ListJobsHandler(c *gin.Context) {
	jobs := h.Service.ListJobs()
	if jobs == nil {
		jobs = []*Job{}
	}
	c.JSON(http.StatusOK, jobs)
}
