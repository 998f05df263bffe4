package api

// ApiResponse is the envelope of every response.
type ApiResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// PosesResponse is returned by GET /poses.
type PosesResponse struct {
	Poses []string `json:"poses"`
	Total int      `json:"total"`
}

// WalkStartRequest is the optional body of POST /walk/start. Zero cycles
// means the configured default.
type WalkStartRequest struct {
	Cycles int `json:"cycles"`
}

// WalkStartResponse is returned by POST /walk/start.
type WalkStartResponse struct {
	RunID  string `json:"run_id"`
	Cycles int    `json:"cycles"`
}

// WalkStopResponse is returned by POST /walk/stop.
type WalkStopResponse struct {
	Stopped bool `json:"stopped"`
}
