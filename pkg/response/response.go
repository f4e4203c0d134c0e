package response

// Response is the envelope returned by every API endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// Meta carries pagination metadata inside a paginated payload.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta computes pagination metadata for a page/limit/total triple.
func NewMeta(page, limit int, total int64) *Meta {
	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}
	return &Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// OK creates a success response with data.
func OK(data interface{}) *Response {
	return &Response{
		Success: true,
		Data:    data,
	}
}

// OKMessage creates a success response with a message and optional data.
func OKMessage(message string, data interface{}) *Response {
	return &Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// Error creates an error response with a human-readable message.
func Error(message string) *Response {
	return &Response{
		Success: false,
		Message: message,
	}
}

// ValidationError creates an error response carrying per-field messages.
func ValidationError(message string, errs []string) *Response {
	return &Response{
		Success: false,
		Message: message,
		Errors:  errs,
	}
}
