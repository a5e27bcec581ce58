package handler

import (
	"net/http"

	"github.com/mcoot/baseballgame-go/internal/api/response"
	"github.com/mcoot/baseballgame-go/internal/model"
)

// RoomLister snapshots the live rooms
type RoomLister interface {
	ListRooms() []model.RoomSummary
}

// RoomHandler handles room endpoints
type RoomHandler struct {
	rooms RoomLister
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms RoomLister) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.RoomListFromModel(h.rooms.ListRooms()))
}
