package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes a JSON response. Room lists, presence and stats change with
// every game, so responses are never cached.
func JSON(w http.ResponseWriter, status int, data any) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}
