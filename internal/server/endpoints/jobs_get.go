package endpoints

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/nagdatt/ai-podcast-saas/internal/api"
	"github.com/nagdatt/ai-podcast-saas/internal/jobs"
	"github.com/nagdatt/ai-podcast-saas/internal/svcctx"
)

// JobStatusResponse is the polling view of a job.
type JobStatusResponse struct {
	ID     string         `json:"id"`
	State  jobs.State     `json:"state"`
	Status jobs.JobStatus `json:"status"`
	Error  string         `json:"error,omitempty"`
}

// GetJobEndpoint handles GET /api/jobs/{id}.
type GetJobEndpoint struct{}

func (e *GetJobEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/jobs/{id}", e.handler
}

func (e *GetJobEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get a job
//	@Description	Get a job with its step status and, once completed, its generated assets
//	@Tags			jobs
//	@Produce		json
//	@Param			id	path		string	true	"Job ID"
//	@Success		200	{object}	jobs.Job
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/jobs/{id} [get]
func (e *GetJobEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (e *GetJobEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a job by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var job jobs.Job
			if err := client.Get(cmd.Context(), "/api/jobs/"+args[0], &job); err != nil {
				return err
			}
			// the transcript is the caller's own input
			job.Transcript = nil
			return api.Output(job)
		},
	}
}

// JobStatusEndpoint handles GET /api/jobs/{id}/status.
type JobStatusEndpoint struct{}

func (e *JobStatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/jobs/{id}/status", e.handler
}

func (e *JobStatusEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get job status
//	@Description	Per-step status of a job, for polling
//	@Tags			jobs
//	@Produce		json
//	@Param			id	path		string	true	"Job ID"
//	@Success		200	{object}	JobStatusResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/jobs/{id}/status [get]
func (e *JobStatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, JobStatusResponse{
		ID:     job.ID,
		State:  job.State,
		Status: job.Status,
		Error:  job.Error,
	})
}

func (e *JobStatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id>",
		Short: "Get per-step status of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp JobStatusResponse
			if err := client.Get(cmd.Context(), "/api/jobs/"+args[0]+"/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// loadJob fetches the job named by the {id} path value, writing the error
// response itself when it cannot.
func loadJob(w http.ResponseWriter, r *http.Request) (*jobs.Job, bool) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "job id is required")
		return nil, false
	}

	tracker := svcctx.TrackerFrom(r.Context())
	if tracker == nil {
		writeError(w, http.StatusServiceUnavailable, "job store not initialized")
		return nil, false
	}

	job, err := tracker.Store().Get(r.Context(), id)
	if errors.Is(err, jobs.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found: "+id)
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return job, true
}
