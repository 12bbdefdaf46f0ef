package apigateway

import (
	"github.com/gin-gonic/gin"

	"whisper-wpm-eval/internal/auth"
	"whisper-wpm-eval/internal/dataset"
	"whisper-wpm-eval/internal/jobmanagement"
	"whisper-wpm-eval/internal/resultstore"
)

// Deps carries the collaborators the API needs. Construct them in main
// and pass them in; the router holds no global state.
type Deps struct {
	Dataset   *dataset.Store
	Results   *resultstore.Store
	Jobs      *jobmanagement.JobService
	AuthToken string
}

// SetupRouter initializes the Gin router. Read endpoints for browsing
// runs and the dataset are public; starting an evaluation is gated by the
// bearer token when one is configured.
func SetupRouter(deps Deps) *gin.Engine {
	router := gin.Default()

	h := &handlers{dataset: deps.Dataset, results: deps.Results}
	jobHandlers := &jobmanagement.Handlers{Service: deps.Jobs}

	api := router.Group("/api")
	{
		api.GET("/health", h.healthHandler)

		runRoutes := api.Group("/runs")
		{
			runRoutes.GET("", h.listRunsHandler)
			runRoutes.GET("/:timestamp", h.getRunSummaryHandler)
			runRoutes.GET("/:timestamp/results", h.getRunResultsHandler)
		}

		datasetRoutes := api.Group("/dataset")
		{
			datasetRoutes.GET("/recordings", h.listRecordingsHandler)
		}

		jobRoutes := api.Group("/jobs")
		jobRoutes.Use(auth.TokenMiddleware(deps.AuthToken))
		{
			jobRoutes.POST("/evaluate", jobHandlers.CreateJobHandler)
			jobRoutes.GET("", jobHandlers.ListJobsHandler)
			jobRoutes.GET("/:id", jobHandlers.GetJobHandler)
		}
	}

	return router
}
