package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"rrt-planner/planner"
)

const referenceWorkspace = `{
	"width": 100, "height": 100,
	"obstacles": [[20,20,30,30],[50,50,60,60],[70,20,80,30],[20,70,30,80]]
}`

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t).Sugar()
	}
	srv := httptest.NewServer(NewHandler(opts))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestPlanReferenceScenario(t *testing.T) {
	srv := newTestServer(t, Options{})

	for _, variant := range []string{"basic", "spacing", "greedy"} {
		t.Run(variant, func(t *testing.T) {
			resp := post(t, srv, "/plan", `{
				"workspace": `+referenceWorkspace+`,
				"start": {"x": 10, "y": 10},
				"goal": {"x": 90, "y": 90},
				"variant": "`+variant+`",
				"params": {"seed": 7},
				"smooth": true,
				"includeTree": true
			}`)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			body := decode[planResponse](t, resp)
			require.True(t, body.Success)
			assert.Equal(t, "goal_reached", body.Status)
			require.GreaterOrEqual(t, len(body.Path), 2)
			assert.Equal(t, planner.Point{X: 10, Y: 10}, body.Path[0])
			assert.Equal(t, planner.Point{X: 90, Y: 90}, body.Path[len(body.Path)-1])
			assert.InDelta(t, body.Path.Length(), body.Length, 1e-9)

			require.NotEmpty(t, body.SmoothedPath)
			assert.LessOrEqual(t, body.SmoothedLength, body.Length+1e-9)
			assert.LessOrEqual(t, len(body.SmoothedPath), len(body.Path))
			assert.Len(t, body.Tree, body.Nodes-1)
		})
	}
}

func TestPlanIsReproducibleWithSeed(t *testing.T) {
	srv := newTestServer(t, Options{})
	req := `{"workspace": ` + referenceWorkspace + `, "start": {"x": 10, "y": 10}, "goal": {"x": 90, "y": 90}, "params": {"seed": 42}}`

	first := decode[planResponse](t, post(t, srv, "/plan", req))
	second := decode[planResponse](t, post(t, srv, "/plan", req))
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.Iterations, second.Iterations)
}

func TestPlanNoPath(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := post(t, srv, "/plan", `{
		"workspace": `+referenceWorkspace+`,
		"start": {"x": 10, "y": 10},
		"goal": {"x": 90, "y": 90},
		"variant": "greedy",
		"params": {"goalBias": 1, "maxIterations": 50}
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[planResponse](t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, "no_path_found", body.Status)
	assert.Equal(t, planner.ReasonIterations, body.Reason)
	assert.Empty(t, body.Path)
	assert.Equal(t, 50, body.Iterations)
}

func TestPlanTimeoutIsCapped(t *testing.T) {
	srv := newTestServer(t, Options{MaxTimeout: 20 * time.Millisecond})

	// goal sits in a sealed pocket in the top-right corner
	resp := post(t, srv, "/plan", `{
		"workspace": {"width": 100, "height": 100, "obstacles": [[80,80,100,85],[80,85,85,100]]},
		"start": {"x": 10, "y": 10},
		"goal": {"x": 95, "y": 95},
		"params": {"maxIterations": 1000000000, "seed": 3}
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[planResponse](t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, planner.ReasonTimeout, body.Reason)
}

func TestPlanSpacingRejectionHonorsMaxTimeout(t *testing.T) {
	srv := newTestServer(t, Options{MaxTimeout: 100 * time.Millisecond})

	// a margin of 100 puts the whole field inside the band around the box
	start := time.Now()
	resp := post(t, srv, "/plan", `{
		"workspace": {"width": 100, "height": 100, "obstacles": [[40,40,60,60]]},
		"start": {"x": 5, "y": 5},
		"goal": {"x": 95, "y": 95},
		"variant": "spacing",
		"params": {"spacingMargin": 100, "maxSampleAttempts": `+strconv.Itoa(planner.MaxSampleAttemptsLimit)+`, "seed": 2}
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[planResponse](t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, planner.ReasonTimeout, body.Reason)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestPlanRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t, Options{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"workspace":`},
		{"unknown field", `{"workspace": ` + referenceWorkspace + `, "bogus": 1}`},
		{"unknown variant", `{"workspace": ` + referenceWorkspace + `, "start": {"x": 10, "y": 10}, "goal": {"x": 90, "y": 90}, "variant": "rrt*"}`},
		{"short obstacle", `{"workspace": {"width": 100, "height": 100, "obstacles": [[1,2,3]]}, "start": {"x": 10, "y": 10}, "goal": {"x": 90, "y": 90}}`},
		{"empty workspace", `{"workspace": {"width": 0, "height": 100}, "start": {"x": 10, "y": 10}, "goal": {"x": 90, "y": 90}}`},
		{"start in obstacle", `{"workspace": ` + referenceWorkspace + `, "start": {"x": 25, "y": 25}, "goal": {"x": 90, "y": 90}}`},
		{"huge sample budget", `{"workspace": ` + referenceWorkspace + `, "start": {"x": 10, "y": 10}, "goal": {"x": 90, "y": 90}, "variant": "spacing", "params": {"maxSampleAttempts": 1000000000000}}`},
		{"raw duration timeout", `{"workspace": ` + referenceWorkspace + `, "start": {"x": 10, "y": 10}, "goal": {"x": 90, "y": 90}, "params": {"timeout": 500}}`},
		{"negative step", `{"workspace": ` + referenceWorkspace + `, "start": {"x": 10, "y": 10}, "goal": {"x": 90, "y": 90}, "params": {"maxDistance": -1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, "/plan", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode[map[string]string](t, resp)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestSmooth(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := post(t, srv, "/smooth", `{
		"workspace": `+referenceWorkspace+`,
		"path": [{"x":10,"y":10},{"x":10,"y":40},{"x":10,"y":60},{"x":45,"y":45}]
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[smoothResponse](t, resp)
	assert.Equal(t, planner.Path{{X: 10, Y: 10}, {X: 10, Y: 60}, {X: 45, Y: 45}}, body.Path)
	assert.InDelta(t, body.Path.Length(), body.Length, 1e-9)
}

func TestSmoothRejectsLongPaths(t *testing.T) {
	srv := newTestServer(t, Options{})

	var sb strings.Builder
	sb.WriteString(`{"workspace": {"width": 100, "height": 100}, "path": [`)
	for i := 0; i <= maxSmoothWaypoints; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(`{"x":1,"y":1}`)
	}
	sb.WriteString(`]}`)

	resp := post(t, srv, "/smooth", sb.String())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Contains(t, body["error"], "waypoints")
}

func TestSmoothWithTolerance(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := post(t, srv, "/smooth", `{
		"workspace": {"width": 100, "height": 100},
		"path": [{"x":0,"y":0},{"x":10,"y":0.2},{"x":20,"y":-0.1},{"x":30,"y":0},{"x":30,"y":20}],
		"tolerance": 0.5
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[smoothResponse](t, resp)
	assert.Equal(t, planner.Path{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 20}}, body.Path)
	assert.InDelta(t, 50.0, body.Length, 1e-9)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, Options{})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/plan", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t, Options{})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get(requestIDHeader))
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv := newTestServer(t, Options{Registry: reg})

	resp := post(t, srv, "/plan", `{"workspace": `+referenceWorkspace+`, "start": {"x": 10, "y": 10}, "goal": {"x": 90, "y": 90}, "params": {"seed": 1}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	metricsResp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	raw, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)

	text := string(raw)
	assert.Contains(t, text, "rrt_plans_total")
	assert.Contains(t, text, `status="goal_reached"`)
	assert.Contains(t, text, `variant="basic"`)
	assert.Contains(t, text, "rrt_plan_duration_seconds_count")
	assert.Contains(t, text, "rrt_tree_nodes_bucket")
}
