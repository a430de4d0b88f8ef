// Package envelope writes the uniform JSON response shapes:
// {"success":true,"data":...} and
// {"success":false,"error":{"message","code","details"},"timestamp"}.
package envelope

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	domerrors "github.com/amirhosseinghanipour/warden/internal/domain/errors"
)

type successBody struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorDetail struct {
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

type errorBody struct {
	Success   bool        `json:"success"`
	Error     errorDetail `json:"error"`
	Timestamp string      `json:"timestamp"`
}

// Now is the clock used for error timestamps.
var Now = time.Now

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func Success(w http.ResponseWriter, code int, data any) {
	WriteJSON(w, code, successBody{Success: true, Data: data})
}

// Error writes a classified error. Internal errors never expose their cause.
func Error(w http.ResponseWriter, e *domerrors.Error) {
	msg := e.Message
	if e.Kind == domerrors.KindInternal {
		msg = domerrors.MsgInternal
	}
	details := e.Details
	if e.Kind == domerrors.KindAccountLocked {
		details = map[string]any{"retryAfterMinutes": e.RetryAfterMinutes}
		w.Header().Set("Retry-After", strconv.Itoa(e.RetryAfterMinutes*60))
	}
	WriteJSON(w, e.Kind.HTTPStatus(), errorBody{
		Error:     errorDetail{Message: msg, Code: e.Kind.String(), Details: details},
		Timestamp: Now().UTC().Format(time.RFC3339),
	})
}

// Message writes an error envelope for conditions outside the domain kinds
// (404, 405, 429).
func Message(w http.ResponseWriter, code int, errCode, message string) {
	WriteJSON(w, code, errorBody{
		Error:     errorDetail{Message: message, Code: errCode},
		Timestamp: Now().UTC().Format(time.RFC3339),
	})
}
