package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/focusnest/webhook-service/internal/apierror"
)

// ErrorResponse is the error envelope every route answers with.
type ErrorResponse = apierror.ErrorResponse

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	apierror.Write(w, r, status, message)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
