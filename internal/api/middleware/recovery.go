package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/baseballgame-go/internal/api/apierr"
	"github.com/mcoot/baseballgame-go/internal/api/response"
	"github.com/mcoot/baseballgame-go/internal/middleware"
)

// Logging tags each API request with an id and logs it once served
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}

// Recovery turns handler panics into a JSON UNKNOWN_ERROR response. Install
// it inside Logging so the response carries the request id.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, writePanicError)
}

func writePanicError(w http.ResponseWriter, r *http.Request, _ any) {
	apiErr, status := apierr.Classify(apierr.NewInternalError())
	if id := middleware.RequestID(r.Context()); id != "" {
		apiErr.Message += " (request " + id + ")"
	}
	response.JSON(w, status, apierr.ErrorResponse{Error: apiErr})
}
