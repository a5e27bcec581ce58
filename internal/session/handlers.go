package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/baseballgame-go/internal/model"
	"github.com/mcoot/baseballgame-go/internal/protocol"
)

// handle runs one decoded client message. Only login and register are
// allowed before authentication.
func (s *Session) handle(ctx context.Context, msg protocol.Message) error {
	switch m := msg.(type) {
	case protocol.LoginRequest:
		return s.handleLogin(ctx, m)
	case protocol.RegisterRequest:
		return s.handleRegister(ctx, m)
	}

	userID := s.UserID()
	if userID == "" {
		return model.ErrNotAuthenticated
	}

	switch m := msg.(type) {
	case protocol.Logout:
		s.loggingOut = true
		return nil
	case protocol.RoomListRequest:
		s.Send(protocol.RoomListResponse{Data: protocol.RoomSummariesFromModel(s.deps.Rooms.ListRooms())})
		return nil
	case protocol.CreateRoomRequest:
		return s.handleCreateRoom(ctx, userID, m)
	case protocol.JoinRoomRequest:
		return s.handleJoinRoom(ctx, userID, m)
	case protocol.LeaveRoom:
		return s.handleLeaveRoom(ctx, userID)
	case protocol.KickPlayer:
		r, err := s.currentRoom()
		if err != nil {
			return err
		}
		return r.Kick(ctx, userID, model.UserID(m.TargetUserID))
	case protocol.Ready:
		return s.setReady(ctx, userID, true)
	case protocol.ReadyCancel:
		return s.setReady(ctx, userID, false)
	case protocol.StartGameRequest:
		r, err := s.currentRoom()
		if err != nil {
			return err
		}
		return r.Start(ctx, userID)
	case protocol.Guess:
		r, err := s.currentRoom()
		if err != nil {
			return model.ErrGameNotRunning
		}
		return r.Guess(ctx, userID, m.Guess)
	case protocol.ChatAll:
		s.deps.Router.Broadcast(protocol.ChatAll{UserID: string(userID), Content: m.Content})
		return nil
	case protocol.ChatRoom:
		r, err := s.currentRoom()
		if err != nil {
			return err
		}
		return r.ChatRoom(ctx, userID, m.Content)
	case protocol.ChatTeam:
		r, err := s.currentRoom()
		if err != nil {
			return err
		}
		return r.ChatTeam(ctx, userID, m.Content)
	case protocol.ChatWhisper:
		return s.handleWhisper(userID, m)
	case protocol.StatsRequest:
		return s.handleStats(ctx, userID, m)
	case protocol.GameHistoryRequest:
		games, err := s.deps.History.ListGames(ctx, userID, m.Limit)
		if err != nil {
			return err
		}
		s.Send(protocol.GameHistoryResponse{Games: protocol.GameHistoryFromModel(games)})
		return nil
	default:
		return fmt.Errorf("%w: %s is not a client message", model.ErrInvalidInput, msg.Kind())
	}
}

func (s *Session) handleLogin(ctx context.Context, m protocol.LoginRequest) error {
	if s.UserID() != "" {
		return model.ErrAlreadyLoggedIn
	}

	account, err := s.deps.Accounts.Authenticate(ctx, model.UserID(m.UserID), m.Password)
	if err != nil {
		return err
	}
	token, err := s.deps.Accounts.IssueToken(account.UserID)
	if err != nil {
		return err
	}

	s.setUser(account.UserID)
	if err := s.deps.Router.Register(account.UserID, s); err != nil {
		s.user.Store(nil)
		return err
	}

	s.Send(protocol.LoginResponse{
		UserID:    string(account.UserID),
		Character: account.Character,
		Token:     token,
	})
	s.deps.Router.BroadcastExcept(account.UserID, protocol.UserConnected{UserID: string(account.UserID)})
	s.logger.Info("user logged in", slog.String("user_id", string(account.UserID)))
	return nil
}

func (s *Session) handleRegister(ctx context.Context, m protocol.RegisterRequest) error {
	account, err := s.deps.Accounts.Register(ctx, model.UserID(m.UserID), m.Password, m.Character)
	if err != nil {
		return err
	}
	s.Send(protocol.RegisterResponse{UserID: string(account.UserID)})
	return nil
}

func (s *Session) handleCreateRoom(ctx context.Context, userID model.UserID, m protocol.CreateRoomRequest) error {
	if s.roomID.Load() != 0 {
		return model.ErrAlreadyInRoom
	}

	settings := model.RoomSettings{
		Name:            m.RoomName,
		Mode:            model.GameMode(m.GameMode),
		Difficulty:      model.Difficulty(m.Difficulty),
		TurnTimeLimit:   m.TurnTimeLimit,
		IsPrivate:       m.IsPrivate,
		Password:        m.RoomPassword,
		AllowSpectators: m.AllowSpectators,
	}
	r, info, err := s.deps.Rooms.CreateRoom(ctx, userID, settings)
	if err != nil {
		return err
	}

	s.roomID.Store(int64(r.ID()))
	s.Send(protocol.CreateRoomResponse{Room: protocol.RoomInfoFromModel(info)})
	return nil
}

func (s *Session) handleJoinRoom(ctx context.Context, userID model.UserID, m protocol.JoinRoomRequest) error {
	if s.roomID.Load() != 0 {
		return model.ErrAlreadyInRoom
	}

	r, err := s.deps.Rooms.FindRoom(model.RoomID(m.RoomID))
	if err != nil {
		return err
	}
	// Claim the id before joining so a kick that lands mid-join clears it
	id := int64(r.ID())
	if !s.roomID.CompareAndSwap(0, id) {
		return model.ErrAlreadyInRoom
	}
	info, err := r.Join(ctx, userID, m.RoomPassword)
	if err != nil {
		s.roomID.CompareAndSwap(id, 0)
		return err
	}

	s.Send(protocol.JoinRoomResponse{Room: protocol.RoomInfoFromModel(info)})
	return nil
}

func (s *Session) handleLeaveRoom(ctx context.Context, userID model.UserID) error {
	r, err := s.currentRoom()
	if err != nil {
		return err
	}
	err = r.Leave(ctx, userID, false)
	if err == nil || errors.Is(err, model.ErrNotInRoom) || errors.Is(err, model.ErrRoomNotFound) {
		s.roomID.CompareAndSwap(int64(r.ID()), 0)
	}
	return err
}

func (s *Session) setReady(ctx context.Context, userID model.UserID, ready bool) error {
	r, err := s.currentRoom()
	if err != nil {
		return err
	}
	return r.SetReady(ctx, userID, ready)
}

func (s *Session) handleWhisper(userID model.UserID, m protocol.ChatWhisper) error {
	target := model.UserID(m.TargetUserID)
	if target == "" || !s.deps.Router.IsOnline(target) {
		return model.ErrTargetNotFound
	}

	whisper := protocol.ChatWhisper{
		UserID:       string(userID),
		TargetUserID: m.TargetUserID,
		Content:      m.Content,
	}
	if !s.deps.Router.SendTo(target, whisper) {
		return model.ErrTargetNotFound
	}
	if target != userID {
		s.Send(whisper)
	}
	return nil
}

func (s *Session) handleStats(ctx context.Context, userID model.UserID, m protocol.StatsRequest) error {
	target := userID
	if m.UserID != "" {
		target = model.UserID(m.UserID)
	}
	stats, err := s.deps.Accounts.GetStats(ctx, target)
	if err != nil {
		return err
	}
	s.Send(protocol.StatsFromModel(stats))
	return nil
}
