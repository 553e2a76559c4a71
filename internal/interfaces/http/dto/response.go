package dto

// ErrorResponse is the envelope for every error body
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     ErrorInfo `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail describes one invalid request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorInfo{Code: code, Message: message},
	}
}

// NewErrorResponseWithRequestID creates an error response tagged with the request id
func NewErrorResponseWithRequestID(code, message, requestID string) ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.RequestID = requestID
	return resp
}

// NewValidationErrorResponse creates a 400 body listing invalid fields
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) ErrorResponse {
	resp := NewErrorResponseWithRequestID(ErrCodeValidation, message, requestID)
	resp.Error.Details = details
	return resp
}

// SuccessResponse is the body of mutations that return no entity
type SuccessResponse struct {
	Success bool `json:"success"`
}

// OK is the {"success":true} body
var OK = SuccessResponse{Success: true}

// UploadResponse is the body of a successful upload
type UploadResponse struct {
	URL string `json:"url"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string     `json:"status"`
	Database string     `json:"database"`
	Version  string     `json:"version,omitempty"`
	Uptime   string     `json:"uptime,omitempty"`
	Cache    string     `json:"cache,omitempty"`
	Storage  string     `json:"storage,omitempty"`
	Pool     *PoolStats `json:"pool,omitempty"`
}

// PoolStats is the database connection pool snapshot in HealthResponse
type PoolStats struct {
	MaxOpen int `json:"maxOpen"`
	Open    int `json:"open"`
	InUse   int `json:"inUse"`
	Idle    int `json:"idle"`
}
