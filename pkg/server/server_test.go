package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/umlsync/pkg/errors"
	"github.com/matzehuels/umlsync/pkg/pipeline"
	"github.com/matzehuels/umlsync/pkg/plantuml"
)

const threeClasses = "@startuml\nclass A\nclass B\nclass C\n@enduml\n"

func newTestServer(t *testing.T, plantumlURL string) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	client := plantuml.NewClient(plantumlURL, plantuml.WithRetry(1, 0))
	runner := pipeline.NewRunner(nil, nil, client, logger)
	srv := httptest.NewServer(New(runner, pipeline.Options{}, logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(string(data)))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1")

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, err = uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err, "response should carry a generated request id")
}

func TestRequestIDIsPropagated(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1")
	id := uuid.NewString()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))
}

func TestEntities(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1")

	resp := post(t, srv, "/v1/entities", DocumentRequest{Text: "@startuml\nactor User\nclass \"Order Service\" as OS\n@enduml\n"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[EntitiesResponse](t, resp)
	require.Len(t, body.Entities, 2)
	assert.Equal(t, "User", body.Entities[0].ID)
	assert.Equal(t, "OS", body.Entities[1].ID)
	assert.Equal(t, "Order Service", body.Entities[1].Label)
}

func TestSeed(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1")

	resp := post(t, srv, "/v1/layout/seed", DocumentRequest{Text: threeClasses})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[pipeline.Seed](t, resp)
	require.Len(t, body.Nodes, 3)
	assert.Equal(t, "C", body.Nodes[2].ID)
	assert.Equal(t, 550.0, body.Nodes[2].X)
	assert.Equal(t, 50.0, body.Nodes[2].Y)
}

func TestApply(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1")

	resp := post(t, srv, "/v1/layout/apply", map[string]any{
		"text": threeClasses,
		"positions": map[string]any{
			"A": map[string]float64{"x": 0, "y": 0},
			"B": map[string]float64{"x": 200, "y": 0},
			"C": map[string]float64{"x": 100, "y": 200},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[ApplyResponse](t, resp)
	assert.Equal(t, []string{
		"A -[hidden]right-> B",
		"A -[hidden]down-> C",
		"B -[hidden]down-> C",
	}, body.Constraints)
	assert.True(t, body.Changed)
	assert.Contains(t, body.Text, "B -[hidden]down-> C\n")
	assert.Equal(t, 3, body.Stats.Positioned)
}

func TestApplyRejectsBadInput(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1")

	tests := []struct {
		name string
		body any
		code errors.Code
	}{
		{"empty text", map[string]any{"text": "  "}, errors.ErrCodeInvalidDocument},
		{"empty id", map[string]any{"text": threeClasses, "positions": map[string]any{"": map[string]float64{"x": 1}}}, errors.ErrCodeInvalidPositions},
		{"unknown field", map[string]any{"text": threeClasses, "bogus": 1}, errors.ErrCodeInvalidInput},
		{"bad format", map[string]any{"text": threeClasses, "format": "pdf"}, errors.ErrCodeInvalidFormat},
		{"negative gap", map[string]any{"text": threeClasses, "min_gap": -3}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, "/v1/layout/apply", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decodeBody[errorBody](t, resp)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestRejectsNonJSON(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1")
	resp, err := http.Post(srv.URL+"/v1/entities", "text/plain", strings.NewReader("@startuml"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestURL(t *testing.T) {
	srv := newTestServer(t, "http://plantuml.local")

	resp := post(t, srv, "/v1/url", DocumentRequest{Text: "@startuml\n", Format: "png"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[URLResponse](t, resp)
	assert.Equal(t, "http://plantuml.local/png/~h407374617274756d6c0a", body.URL)
}

func TestRender(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/svg/~h"))
		_, _ = w.Write([]byte("<svg/>"))
	}))
	defer upstream.Close()
	srv := newTestServer(t, upstream.URL)

	resp := post(t, srv, "/v1/render", DocumentRequest{Text: threeClasses})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))
}

func TestPreview(t *testing.T) {
	srv := newTestServer(t, "http://localhost:1")
	positions := map[string]any{
		"A": map[string]float64{"x": 0, "y": 0},
		"B": map[string]float64{"x": 300, "y": 0},
	}

	resp := post(t, srv, "/v1/preview", map[string]any{"text": threeClasses, "positions": positions})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestRenderUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Syntax Error?", http.StatusBadRequest)
	}))
	defer upstream.Close()
	srv := newTestServer(t, upstream.URL)

	resp := post(t, srv, "/v1/render", DocumentRequest{Text: threeClasses})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decodeBody[errorBody](t, resp)
	assert.Equal(t, errors.ErrCodeRender, body.Error.Code)
}
