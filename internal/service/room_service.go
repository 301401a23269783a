package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trivialive/internal/cache"
	"trivialive/internal/game"
	"trivialive/internal/live"
	"trivialive/internal/model"
	"trivialive/internal/repository"
)

// RoomService handles room lifecycle: creating live rooms, letting
// players in, and tearing rooms down when the host closes them.
type RoomService struct {
	manager     *live.Manager
	roomCache   cache.RoomCache
	leaderboard cache.LeaderboardCache
	sessionRepo repository.SessionRepo
	authSvc     *AuthService
	broadcaster Broadcaster
}

// NewRoomService creates a new room service
func NewRoomService(
	manager *live.Manager,
	roomCache cache.RoomCache,
	leaderboard cache.LeaderboardCache,
	sessionRepo repository.SessionRepo,
	authSvc *AuthService,
) *RoomService {
	return &RoomService{
		manager:     manager,
		roomCache:   roomCache,
		leaderboard: leaderboard,
		sessionRepo: sessionRepo,
		authSvc:     authSvc,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateRoom spins up a live room for a host
func (s *RoomService) CreateRoom(ctx context.Context, hostID string, totalCells int) (*live.Room, error) {
	room, err := s.manager.Create(hostID, totalCells)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	meta := &model.RoomMeta{
		HostID:    hostID,
		Status:    model.RoomStatusLive,
		CreatedAt: time.Now(),
	}
	if err := s.roomCache.SetMeta(ctx, room.Code, meta); err != nil {
		s.manager.Close(room.Code)
		return nil, fmt.Errorf("failed to cache room: %w", err)
	}

	return room, nil
}

// GetRoom returns the live room for a code, or nil
func (s *RoomService) GetRoom(code string) *live.Room {
	return s.manager.Get(code)
}

// GetRoomMeta retrieves room metadata from Redis
func (s *RoomService) GetRoomMeta(ctx context.Context, code string) (*model.RoomMeta, error) {
	return s.roomCache.GetMeta(ctx, code)
}

// JoinRoom registers a player with a live room and issues their
// room-scoped token.
func (s *RoomService) JoinRoom(ctx context.Context, code, name, avatar string) (*model.PlayerJoinResponse, error) {
	meta, err := s.roomCache.GetMeta(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if meta == nil {
		return nil, fmt.Errorf("room not found")
	}
	if meta.Status == model.RoomStatusEnded {
		return nil, fmt.Errorf("room has ended")
	}
	room := s.manager.Get(code)
	if room == nil {
		return nil, fmt.Errorf("room not found")
	}

	playerID := "p_" + uuid.New().String()[:8]
	token, err := s.authSvc.GeneratePlayerToken(code, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	room.Join(game.PlayerState{
		ID:          playerID,
		Name:        name,
		Avatar:      avatar,
		IsConnected: true,
	})

	// Seed the Redis leaderboard so the player shows up before their
	// first scored answer.
	if err := s.leaderboard.UpdateScore(ctx, code, playerID, 0); err != nil {
		return nil, fmt.Errorf("failed to init leaderboard: %w", err)
	}

	return &model.PlayerJoinResponse{
		PlayerID: playerID,
		Token:    token,
		RoomCode: code,
	}, nil
}

// CloseRoom tears down a live room: the session ends if it hadn't
// already, connections are dropped, and the Redis footprint is removed.
func (s *RoomService) CloseRoom(ctx context.Context, code, hostID string) error {
	meta, err := s.roomCache.GetMeta(ctx, code)
	if err != nil {
		return err
	}
	if meta == nil {
		return fmt.Errorf("room not found")
	}
	if meta.HostID != hostID {
		return fmt.Errorf("unauthorized: not room host")
	}

	if room := s.manager.Get(code); room != nil {
		room.EndGame()
		s.manager.Close(code)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToAllPlayers(code, "room_closed", map[string]string{"roomCode": code})
		s.broadcaster.DisconnectRoom(code)
	}

	if err := s.leaderboard.Delete(ctx, code); err != nil {
		return err
	}
	return s.roomCache.SetStatus(ctx, code, model.RoomStatusEnded)
}

// GetSummary fetches a finished-session summary
func (s *RoomService) GetSummary(ctx context.Context, code string) (*model.SessionSummary, error) {
	return s.sessionRepo.GetByRoomCode(ctx, code)
}

// ListSummaries returns a host's recent finished sessions
func (s *RoomService) ListSummaries(ctx context.Context, hostID string) ([]model.SessionSummary, error) {
	return s.sessionRepo.ListByHost(ctx, hostID, 20)
}
