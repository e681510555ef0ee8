package endpoints

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerCommand_WritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/swagger.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"swagger":"2.0","info":{"title":"podsaas API"}}`))
	}))
	defer srv.Close()

	cmd := (&SwaggerEndpoint{}).Command(func() string { return srv.URL })
	// The root command owns --output/-o for the output format.
	assert.Nil(t, cmd.Flags().Lookup("output"))
	assert.Nil(t, cmd.Flags().ShorthandLookup("o"))

	path := filepath.Join(t.TempDir(), "swagger.json")
	cmd.SetArgs([]string{"-f", path})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"swagger":"2.0","info":{"title":"podsaas API"}}`, string(raw))
}
