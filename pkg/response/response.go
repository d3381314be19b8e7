package response

// Error codes carried in ErrorData.Code
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeSeatConflict    = "SEAT_CONFLICT"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	CodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	CodeInternal        = "INTERNAL_ERROR"
	CodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// Response is the JSON envelope returned by every endpoint
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorData  `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorData describes a failed request
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ListMeta describes a collection payload
type ListMeta struct {
	Total int `json:"total"`
}

// Success wraps data in a successful response
func Success(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// SuccessWithMeta wraps data and metadata in a successful response
func SuccessWithMeta(data, meta interface{}) Response {
	return Response{Success: true, Data: data, Meta: meta}
}

// Error builds an error response
func Error(code, message string) Response {
	return Response{
		Success: false,
		Error:   &ErrorData{Code: code, Message: message},
	}
}

// ErrorWithDetails builds an error response with extra detail
func ErrorWithDetails(code, message, details string) Response {
	return Response{
		Success: false,
		Error:   &ErrorData{Code: code, Message: message, Details: details},
	}
}

func BadRequest(message string) Response {
	return Error(CodeBadRequest, message)
}

func ValidationError(message string) Response {
	return Error(CodeValidation, message)
}

func NotFound(message string) Response {
	return Error(CodeNotFound, message)
}

func Conflict(message string) Response {
	return Error(CodeSeatConflict, message)
}

// InternalError hides the cause from clients
func InternalError() Response {
	return Error(CodeInternal, "Internal server error")
}
