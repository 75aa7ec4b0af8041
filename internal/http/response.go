package http

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the envelope every /api endpoint answers with.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError represents an error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidSplit = "INVALID_SPLIT"
	CodeStorage      = "STORAGE_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// writeJSON sends data in the envelope with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	respond(w, status, APIResponse{Success: status >= 200 && status < 300, Data: data})
}

// writeError sends an error envelope. data may carry the state that goes
// with the error and can be nil.
func writeError(w http.ResponseWriter, status int, code, message string, data any) {
	respond(w, status, APIResponse{
		Success: false,
		Data:    data,
		Error:   &APIError{Code: code, Message: message},
	})
}

// respond encodes body before writing the status, so an unencodable payload
// becomes an INTERNAL_ERROR envelope instead of an empty 200.
func respond(w http.ResponseWriter, status int, body APIResponse) {
	buf, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		buf, _ = json.Marshal(APIResponse{
			Error: &APIError{Code: CodeInternal, Message: "response encoding failed"},
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(buf, '\n'))
}

func badRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, CodeBadRequest, message, nil)
}

func notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, CodeNotFound, message, nil)
}
