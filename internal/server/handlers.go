package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"rrt-planner/planner"
)

const (
	// maxBodyBytes bounds request bodies; obstacle lists are the only large part
	maxBodyBytes = 8 << 20

	// maxSmoothWaypoints bounds /smooth input; shortcutting is quadratic
	maxSmoothWaypoints = 10000
)

type workspaceDTO struct {
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Obstacles [][]float64 `json:"obstacles"` // [x1, y1, x2, y2]
}

func (d workspaceDTO) build() (*planner.Workspace, error) {
	obstacles := make([]planner.Obstacle, 0, len(d.Obstacles))
	for i, o := range d.Obstacles {
		if len(o) != 4 {
			return nil, fmt.Errorf("%w: obstacle %d needs 4 coordinates, got %d",
				planner.ErrInvalidConfiguration, i, len(o))
		}
		obstacles = append(obstacles, planner.NewObstacle(
			planner.Point{X: o[0], Y: o[1]},
			planner.Point{X: o[2], Y: o[3]},
		))
	}
	return planner.NewWorkspace(d.Width, d.Height, obstacles)
}

type planRequest struct {
	Workspace   workspaceDTO   `json:"workspace"`
	Start       planner.Point  `json:"start"`
	Goal        planner.Point  `json:"goal"`
	Variant     string         `json:"variant"`
	Params      planner.Params `json:"params"`
	TimeoutMs   int64          `json:"timeoutMs"`
	Smooth      bool           `json:"smooth"`
	IncludeTree bool           `json:"includeTree"`
}

type planResponse struct {
	Success        bool               `json:"success"`
	Status         string             `json:"status"`
	Reason         string             `json:"reason,omitempty"`
	Path           planner.Path       `json:"path"`
	SmoothedPath   planner.Path       `json:"smoothedPath,omitempty"`
	Length         float64            `json:"length"`
	SmoothedLength float64            `json:"smoothedLength,omitempty"`
	Iterations     int                `json:"iterations"`
	Nodes          int                `json:"nodes"`
	ElapsedMs      float64            `json:"elapsedMs"`
	Tree           [][2]planner.Point `json:"tree,omitempty"`
}

type smoothRequest struct {
	Workspace workspaceDTO `json:"workspace"`
	Path      planner.Path `json:"path"`
	Tolerance float64      `json:"tolerance"` // Douglas-Peucker instead of shortcutting when positive
}

type smoothResponse struct {
	Path   planner.Path `json:"path"`
	Length float64      `json:"length"`
}

// GET /health - liveness check
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /plan - grow a tree between start and goal
func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	req := planRequest{Params: s.defaults}
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	variant := planner.Basic
	if req.Variant != "" {
		v, err := planner.ParseVariant(req.Variant)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		variant = v
	}

	ws, err := req.Workspace.build()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	params := req.Params
	if req.TimeoutMs > 0 {
		params.Timeout = time.Duration(req.TimeoutMs) * time.Millisecond
	}
	if s.maxTimeout > 0 && (params.Timeout == 0 || params.Timeout > s.maxTimeout) {
		params.Timeout = s.maxTimeout
	}

	var tree *planner.Tree
	opts := []planner.Option{planner.WithLogger(s.logger.With("request_id", requestIDFrom(r.Context())))}
	if req.IncludeTree {
		opts = append(opts, planner.WithTreeObserver(func(t *planner.Tree) { tree = t }))
	}

	res, err := planner.Plan(r.Context(), req.Start, req.Goal, ws, variant, params, opts...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.observe(variant, res)

	resp := planResponse{
		Success:    res.Found(),
		Status:     res.Status.String(),
		Reason:     res.Reason,
		Path:       res.Path,
		Iterations: res.Iterations,
		Nodes:      res.Nodes,
		ElapsedMs:  float64(res.Elapsed) / float64(time.Millisecond),
	}
	if res.Found() {
		resp.Length = res.Path.Length()
		if req.Smooth {
			resp.SmoothedPath = planner.Smooth(res.Path, ws)
			resp.SmoothedLength = resp.SmoothedPath.Length()
		}
	}
	if tree != nil {
		resp.Tree = tree.Edges()
	}

	s.writeJSON(w, r, http.StatusOK, resp)
}

// POST /smooth - shortcut or simplify an existing path
func (s *Server) smooth(w http.ResponseWriter, r *http.Request) {
	var req smoothRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if len(req.Path) > maxSmoothWaypoints {
		s.writeError(w, r, http.StatusBadRequest,
			fmt.Sprintf("path has %d waypoints, at most %d are accepted", len(req.Path), maxSmoothWaypoints))
		return
	}

	ws, err := req.Workspace.build()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var smoothed planner.Path
	if req.Tolerance > 0 {
		smoothed = planner.Simplify(req.Path, ws, req.Tolerance)
	} else {
		smoothed = planner.Smooth(req.Path, ws)
	}
	s.writeJSON(w, r, http.StatusOK, smoothResponse{Path: smoothed, Length: smoothed.Length()})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, planner.ErrInvalidConfiguration) {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Errorw("request failed", "path", r.URL.Path, "error", err,
		"request_id", requestIDFrom(r.Context()))
	s.writeError(w, r, http.StatusInternalServerError, "internal error")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warnw("encode failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, map[string]string{"error": msg})
}
