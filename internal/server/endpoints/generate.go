package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/nagdatt/ai-podcast-saas/internal/api"
	"github.com/nagdatt/ai-podcast-saas/internal/assets"
	"github.com/nagdatt/ai-podcast-saas/internal/svcctx"
	"github.com/nagdatt/ai-podcast-saas/internal/transcript"
)

// GenerateResponse carries one generated asset.
type GenerateResponse struct {
	Kind         assets.Kind `json:"kind"`
	Value        any         `json:"value"`
	UsedFallback bool        `json:"used_fallback"`
}

// GenerateEndpoint handles POST /api/generate/{kind}.
type GenerateEndpoint struct{}

func (e *GenerateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/generate/{kind}", e.handler
}

func (e *GenerateEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Generate one asset
//	@Description	Synchronously run a single use case on the posted transcript. Generation problems yield the use case's fallback with used_fallback set.
//	@Tags			generate
//	@Accept			json
//	@Produce		json
//	@Param			kind		path		string					true	"Asset kind or step name (summary, titles, hashtags, social, keyMoments, youtubeTimestamps)"
//	@Param			transcript	body		transcript.Transcript	true	"Finished transcript"
//	@Success		200			{object}	GenerateResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/api/generate/{kind} [post]
func (e *GenerateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	kind, err := assets.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var t transcript.Transcript
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid transcript body")
		return
	}
	if err := t.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gen := svcctx.GeneratorFrom(r.Context())
	if gen == nil {
		writeError(w, http.StatusServiceUnavailable, "generator not initialized")
		return
	}

	value, usedFallback, err := gen.Generate(r.Context(), kind, &t)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{Kind: kind, Value: value, UsedFallback: usedFallback})
}

func (e *GenerateEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <kind> <transcript.json>",
		Short: "Generate a single asset on the server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := assets.ParseKind(args[0])
			if err != nil {
				return err
			}
			t, err := transcript.LoadFile(args[1])
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			var resp GenerateResponse
			if err := client.Post(cmd.Context(), "/api/generate/"+string(kind), t, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
