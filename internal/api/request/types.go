package request

import (
	"net/http"
	"strconv"

	"github.com/mcoot/baseballgame-go/internal/api/apierr"
)

// MaxHistoryLimit caps how many games one history request may return
const MaxHistoryLimit = 100

// HistoryQuery holds the query parameters of a history request
type HistoryQuery struct {
	// Limit of 0 means the server default
	Limit int
}

// ParseHistoryQuery reads ?limit= from the request
func ParseHistoryQuery(r *http.Request) (HistoryQuery, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return HistoryQuery{}, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > MaxHistoryLimit {
		return HistoryQuery{}, apierr.NewInvalidRequestError("limit must be between 1 and " + strconv.Itoa(MaxHistoryLimit))
	}
	return HistoryQuery{Limit: limit}, nil
}
