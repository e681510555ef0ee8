package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/nagdatt/ai-podcast-saas/internal/api"
	"github.com/nagdatt/ai-podcast-saas/internal/jobs"
	"github.com/nagdatt/ai-podcast-saas/internal/svcctx"
	"github.com/nagdatt/ai-podcast-saas/internal/transcript"
)

// CreateJobRequest is the request body for creating a job.
type CreateJobRequest struct {
	ProjectID  string                 `json:"project_id"`
	Transcript *transcript.Transcript `json:"transcript"`
}

// CreateJobEndpoint handles POST /api/jobs.
type CreateJobEndpoint struct{}

func (e *CreateJobEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/jobs", e.handler
}

func (e *CreateJobEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Create a job
//	@Description	Record a job for a finished transcript and start generating its assets
//	@Tags			jobs
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateJobRequest	true	"Project and transcript"
//	@Success		202		{object}	jobs.Job
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/jobs [post]
func (e *CreateJobEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "project_id is required")
		return
	}
	if err := req.Transcript.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tracker := svcctx.TrackerFrom(r.Context())
	starter := svcctx.StarterFrom(r.Context())
	if tracker == nil || starter == nil {
		writeError(w, http.StatusServiceUnavailable, "job execution not initialized")
		return
	}

	job, err := tracker.Create(r.Context(), req.ProjectID, req.Transcript)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := starter.StartJob(r.Context(), job); err != nil {
		if ferr := tracker.Fail(r.Context(), job.ID, err); ferr != nil {
			if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
				logger.Error("failed to mark job failed", "job_id", job.ID, "error", ferr)
			}
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to start job: %v", err))
		return
	}

	writeJSON(w, http.StatusAccepted, job)
}

func (e *CreateJobEndpoint) Command(getServerURL func() string) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "create <transcript.json>",
		Short: "Create a job from a transcript file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectID == "" {
				return fmt.Errorf("--project is required")
			}
			t, err := transcript.LoadFile(args[0])
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			var job jobs.Job
			if err := client.Post(cmd.Context(), "/api/jobs", CreateJobRequest{ProjectID: projectID, Transcript: t}, &job); err != nil {
				return err
			}
			return api.Output(struct {
				ID     string         `json:"id"`
				State  jobs.State     `json:"state"`
				Status jobs.JobStatus `json:"status"`
			}{job.ID, job.State, job.Status})
		},
	}
	cmd.Flags().StringVarP(&projectID, "project", "p", "", "Project ID the job belongs to")
	return cmd
}
