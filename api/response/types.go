package response

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// Response is the envelope of every JSON reply.
type Response struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
