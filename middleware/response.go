package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/apierr"
)

// ExposeErrorDetail adds the underlying cause to error bodies. Turned off
// in production.
var ExposeErrorDetail = true

type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
	Detail  string   `json:"detail,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders err as {"error", "details"?, "detail"?} with the
// status carried by its apierr classification. Server errors are logged.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	e := apierr.From(err)
	body := errorBody{Error: e.Message, Details: e.Details}
	if e.Status >= http.StatusInternalServerError {
		LoggerFrom(r.Context()).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "status", e.Status, "error", err)
		if ExposeErrorDetail && e.Err != nil {
			body.Detail = e.Err.Error()
		}
	}
	WriteJSON(w, e.Status, body)
}

// NotFound answers unknown routes with a JSON 404.
func NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, apierr.NotFound("route not found"))
	})
}

func MethodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, apierr.New(http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil))
	})
}
