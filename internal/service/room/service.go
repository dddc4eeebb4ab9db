package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sharetube/frequency/internal/domain"
	"github.com/sharetube/frequency/internal/repository/room"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrMemberNotFound   = errors.New("member not found")
	ErrAlreadyJoined    = errors.New("connection already joined a room")
	ErrValidation       = errors.New("validation error")
	ErrRegistryClosed   = errors.New("room registry is closed")
)

type iRoomRepo interface {
	GetRoom(ctx context.Context, roomId string) (room.Room, error)
	SetRoom(context.Context, *room.SetRoomParams) error
	IncrSongPlays(context.Context, *room.IncrSongPlaysParams) error
	GetTopSongs(ctx context.Context, limit int) ([]room.Song, error)
}

type iSender interface {
	Send(connectionId string, msg any) error
}

type Config struct {
	// TopSongsLimit caps the global leaderboard returned by GetDiscovery.
	TopSongsLimit int
	Clock         func() time.Time
}

type service struct {
	registry      *Registry
	roomRepo      iRoomRepo
	sender        iSender
	topSongsLimit int
	now           func() time.Time
	// joined maps a connection to the room it joined.
	joined map[string]string
	mu     sync.Mutex
}

func NewService(registry *Registry, roomRepo iRoomRepo, sender iSender, cfg *Config) *service {
	s := service{
		registry:      registry,
		roomRepo:      roomRepo,
		sender:        sender,
		topSongsLimit: cfg.TopSongsLimit,
		now:           cfg.Clock,
		joined:        make(map[string]string),
	}

	if s.now == nil {
		s.now = time.Now
	}

	if s.topSongsLimit <= 0 {
		s.topSongsLimit = 10
	}

	return &s
}

func (s *service) claim(connectionId, roomId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.joined[connectionId]; ok {
		return ErrAlreadyJoined
	}

	s.joined[connectionId] = roomId
	return nil
}

func (s *service) release(connectionId string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomId, ok := s.joined[connectionId]
	delete(s.joined, connectionId)

	return roomId, ok
}

func (s *service) roomOf(connectionId string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomId, ok := s.joined[connectionId]
	return roomId, ok
}

// withMember runs fn inside the room actor of the room connectionId joined.
func (s *service) withMember(ctx context.Context, connectionId string, fn func(h *roomHandle, member domain.Member) error) error {
	roomId, ok := s.roomOf(connectionId)
	if !ok {
		return ErrMemberNotFound
	}

	h, err := s.registry.GetOrCreate(ctx, roomId)
	if err != nil {
		return err
	}

	return h.do(ctx, func() error {
		member, _, err := h.room.Members.GetByConnectionId(connectionId)
		if err != nil {
			return ErrMemberNotFound
		}

		return fn(h, member)
	})
}

// withHost is withMember for intents only the room authority may issue.
func (s *service) withHost(ctx context.Context, connectionId string, fn func(h *roomHandle, member domain.Member) error) error {
	return s.withMember(ctx, connectionId, func(h *roomHandle, member domain.Member) error {
		if !member.IsHost {
			return ErrPermissionDenied
		}

		return fn(h, member)
	})
}

// broadcast sends msg to every member of the room. It must run inside the
// room actor so that all members observe broadcasts in the same order.
func (s *service) broadcast(ctx context.Context, h *roomHandle, msg Message) {
	for _, connectionId := range h.room.Members.ConnectionIds() {
		s.send(ctx, connectionId, msg)
	}
}

func (s *service) send(ctx context.Context, connectionId string, msg Message) {
	if err := s.sender.Send(connectionId, msg); err != nil {
		slog.DebugContext(ctx, "failed to send message", "connection_id", connectionId, "type", msg.Type, "error", err)
	}
}
