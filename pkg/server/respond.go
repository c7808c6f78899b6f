package server

import (
	"encoding/json"
	"net/http"

	"github.com/aanbieding/folder/pkg/errors"
)

// errorResponse is the body of every non-2xx API response.
type errorResponse struct {
	Error  string      `json:"error"`
	Code   errors.Code `json:"code,omitempty"`
	JobID  string      `json:"job_id,omitempty"`
	Detail string      `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.IsNotFound(err):
		return http.StatusNotFound
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeJobNotCompleted:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJobError(w, "", err, "")
}

func writeJobError(w http.ResponseWriter, jobID string, err error, detail string) {
	writeJSON(w, statusFor(err), errorResponse{
		Error:  errors.UserMessage(err),
		Code:   errors.GetCode(err),
		JobID:  jobID,
		Detail: detail,
	})
}
