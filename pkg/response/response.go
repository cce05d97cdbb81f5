// Package response defines the JSON error envelope returned by the HTTP API.
package response

const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeBadRequest       = "BAD_REQUEST"
)

var EmptyRequestBodyResponse = ErrorResponse(CodeBadRequest, "Request body is empty. Please provide necessary data.")

var BadRequestResponse = ErrorResponse(CodeBadRequest, "Request body is not valid JSON.")

var NotFoundResponse = ErrorResponse(CodeNotFound, "The requested bookmark was not found.")

var ServerErrorResponse = ErrorResponse(CodeInternalError, "An internal server error occurred. Please try again later.")

// Detail points at a single offending request field.
type Detail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []Detail `json:"details,omitempty"`
}

type Response struct {
	Error Error `json:"error"`
}

func ErrorResponse(code, msg string, details ...Detail) Response {
	resp := Response{
		Error: Error{
			Code:    code,
			Message: msg,
		},
	}

	if len(details) > 0 {
		resp.Error.Details = details
	}

	return resp
}
