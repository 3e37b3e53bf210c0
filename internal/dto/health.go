package dto

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Timestamp string                 `json:"timestamp" example:"2024-05-01T03:00:00Z"`
	Checks    map[string]CheckStatus `json:"checks"`
}

// CheckStatus is the result of one dependency check
type CheckStatus struct {
	Status  string `json:"status" example:"healthy"`
	Message string `json:"message,omitempty"`
}
