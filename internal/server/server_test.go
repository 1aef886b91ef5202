package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adforge/adforge/internal/config"
	"github.com/adforge/adforge/internal/core"
	"github.com/adforge/adforge/internal/core/expand"
	"github.com/adforge/adforge/internal/core/model"
	"github.com/adforge/adforge/internal/gen"
	"github.com/adforge/adforge/internal/logger"
)

func newTestServer(t *testing.T) (*gin.Engine, *core.Session, *gen.MockGenerator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	g := gen.NewMockGenerator()
	session := core.NewSession(g, logger.Nop(), expand.Options{})
	srv := New(session, config.Default(), logger.Nop())
	return srv.SetupRouter(), session, g
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func startViaHTTP(t *testing.T, r *gin.Engine) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/session", gin.H{"image": "aGVsbG8=", "mime_type": "image/png"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestHealthz(t *testing.T) {
	r, _, _ := newTestServer(t)
	w := doJSON(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStartSessionReturnsBlueprintAndNodes(t *testing.T) {
	r, _, _ := newTestServer(t)
	w := doJSON(t, r, http.MethodPost, "/session", gin.H{"image": "aGVsbG8="})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Blueprint struct {
			Product string `json:"product"`
		} `json:"blueprint"`
		Nodes []json.RawMessage `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Test Product", resp.Blueprint.Product)
	assert.Len(t, resp.Nodes, 2)
}

func TestStartSessionRequiresImage(t *testing.T) {
	r, _, _ := newTestServer(t)
	w := doJSON(t, r, http.MethodPost, "/session", gin.H{"caption": "no image"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleBeforeSessionIs422(t *testing.T) {
	r, _, _ := newTestServer(t)
	w := doJSON(t, r, http.MethodPost, "/nodes/some-id/toggle", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDeleteWithoutConfirmIs428(t *testing.T) {
	r, session, _ := newTestServer(t)
	startViaHTTP(t, r)
	personaID := session.Tree()[1].ID

	w := doJSON(t, r, http.MethodDelete, "/nodes/"+personaID, nil)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/nodes/"+personaID+"?confirm=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, session.Tree(), 1)
}

func TestToggleSynthesizesChildren(t *testing.T) {
	r, session, _ := newTestServer(t)
	startViaHTTP(t, r)
	personaID := session.Tree()[1].ID

	w := doJSON(t, r, http.MethodPost, "/nodes/"+personaID+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, session.Tree(), 6, "persona gains its four pain/desire children")
}

func TestQuickScaleWorkflow(t *testing.T) {
	r, session, _ := newTestServer(t)
	startViaHTTP(t, r)

	w := doJSON(t, r, http.MethodPost, "/workflows/quick-scale", gin.H{"variations": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Greater(t, len(session.Tree()), 2)

	w = doJSON(t, r, http.MethodGet, "/concepts?campaign=Quick+Scale", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Concepts []json.RawMessage `json:"concepts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Concepts, 9)
}

func TestRemixSuggestionsOnShortcutConceptIs422(t *testing.T) {
	r, session, _ := newTestServer(t)
	startViaHTTP(t, r)
	require.Equal(t, http.StatusCreated,
		doJSON(t, r, http.MethodPost, "/workflows/quick-scale", gin.H{"variations": 1}).Code)

	var conceptID string
	for _, n := range session.Tree() {
		if n.Type == model.TypeCreative {
			conceptID = n.ID
			break
		}
	}
	require.NotEmpty(t, conceptID)

	w := doJSON(t, r, http.MethodPost, "/concepts/"+conceptID+"/remix/suggestions", gin.H{"component": "angle"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSessionErrorEndpoint(t *testing.T) {
	r, _, _ := newTestServer(t)
	w := doJSON(t, r, http.MethodGet, "/session/error", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Error string `json:"error"`
		Busy  bool   `json:"busy"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Error)
	assert.False(t, resp.Busy)
}

func TestExportReturnsAllConcepts(t *testing.T) {
	r, _, _ := newTestServer(t)
	startViaHTTP(t, r)
	require.Equal(t, http.StatusCreated,
		doJSON(t, r, http.MethodPost, "/workflows/ugc-pack", nil).Code)

	w := doJSON(t, r, http.MethodGet, "/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Concepts []struct {
			Format string `json:"format"`
		} `json:"concepts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Concepts)
	for _, c := range resp.Concepts {
		assert.Equal(t, "UGC", c.Format)
	}
}
