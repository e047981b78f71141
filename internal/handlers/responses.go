package handlers

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Visitors int    `json:"visitors"`
	// Content is the content file in use, empty for the built-in copy.
	Content string `json:"content,omitempty"`
}

// ErrorResponse is the JSON body for errors on non-HTML routes.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
