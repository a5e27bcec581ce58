package handler

import (
	"net/http"

	"github.com/mcoot/baseballgame-go/internal/api/response"
	"github.com/mcoot/baseballgame-go/internal/model"
)

// OnlineLister lists connected users
type OnlineLister interface {
	Online() []model.UserID
}

// PresenceHandler handles presence endpoints
type PresenceHandler struct {
	online OnlineLister
}

// NewPresenceHandler creates a new presence handler
func NewPresenceHandler(online OnlineLister) *PresenceHandler {
	return &PresenceHandler{online: online}
}

// Online handles GET /api/v1/online
func (h *PresenceHandler) Online(w http.ResponseWriter, r *http.Request) {
	ids := h.online.Online()
	users := make([]string, len(ids))
	for i, id := range ids {
		users[i] = string(id)
	}
	response.JSON(w, http.StatusOK, response.Online{Users: users, Count: len(users)})
}
