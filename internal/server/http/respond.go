package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/credgate/internal/common"
	"github.com/dmitrijs2005/credgate/internal/server/auth"
)

type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Method     string `json:"method"`
	Message    string `json:"message"`
	Reason     string `json:"reason,omitempty"`
}

// writeJSON writes JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends the uniform error body.
func writeError(w http.ResponseWriter, req *http.Request, status int, msg string, reason auth.Reason) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="credgate"`)
	}
	writeJSON(w, status, errorBody{
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		Path:       req.URL.Path,
		Method:     req.Method,
		Message:    msg,
		Reason:     string(reason),
	})
}

// errorStatus maps a service error onto status, message and token reason.
// Credential rejections never say whether the email exists.
func errorStatus(err error) (int, string, auth.Reason) {
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return http.StatusUnauthorized, auth.ErrInvalidCredentials.Error(), ""
	}

	if reason, ok := auth.RejectReason(err); ok {
		return http.StatusUnauthorized, "unauthorized", reason
	}
	return http.StatusInternalServerError, common.ErrorInternal.Error(), ""
}

// writeServiceError answers with the mapped error body. Failures that are not
// auth rejections are logged with the request id.
func (r *Router) writeServiceError(w http.ResponseWriter, req *http.Request, err error) {
	status, msg, reason := errorStatus(err)
	if status == http.StatusInternalServerError {
		r.logger.Error(req.Context(), "request failed",
			"path", req.URL.Path,
			"request_id", RequestIDFromContext(req.Context()),
			"error", err,
		)
	}
	writeError(w, req, status, msg, reason)
}
