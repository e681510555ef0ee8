package endpoints

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nagdatt/ai-podcast-saas/internal/api"
	"github.com/nagdatt/ai-podcast-saas/internal/jobs"
	"github.com/nagdatt/ai-podcast-saas/internal/svcctx"
)

// ListJobsResponse is the response for listing jobs.
type ListJobsResponse struct {
	Jobs []*jobs.Job `json:"jobs"`
}

// ListJobsEndpoint handles GET /api/jobs.
type ListJobsEndpoint struct{}

func (e *ListJobsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/jobs", e.handler
}

func (e *ListJobsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List jobs
//	@Description	List jobs newest first, without transcripts or results
//	@Tags			jobs
//	@Produce		json
//	@Param			state		query		string	false	"Filter by state (queued, running, completed, failed)"
//	@Param			project_id	query		string	false	"Filter by project"
//	@Param			limit		query		int		false	"Max results (default 100)"
//	@Param			offset		query		int		false	"Offset for pagination"
//	@Success		200			{object}	ListJobsResponse
//	@Failure		500			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/api/jobs [get]
func (e *ListJobsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	tracker := svcctx.TrackerFrom(r.Context())
	if tracker == nil {
		writeError(w, http.StatusServiceUnavailable, "job store not initialized")
		return
	}

	q := r.URL.Query()
	filter := jobs.ListFilter{
		State:     jobs.State(q.Get("state")),
		ProjectID: q.Get("project_id"),
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	list, err := tracker.Store().List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []*jobs.Job{}
	}

	writeJSON(w, http.StatusOK, ListJobsResponse{Jobs: list})
}

func (e *ListJobsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var state, projectID string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if state != "" {
				params.Set("state", state)
			}
			if projectID != "" {
				params.Set("project_id", projectID)
			}
			if limit > 0 {
				params.Set("limit", strconv.Itoa(limit))
			}
			path := "/api/jobs"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			client := api.NewClient(getServerURL())
			var resp ListJobsResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "Filter by state")
	cmd.Flags().StringVar(&projectID, "project", "", "Filter by project ID")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	return cmd
}
