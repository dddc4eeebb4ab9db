package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/sharetube/frequency/internal/domain"
	"github.com/sharetube/frequency/internal/repository/room"
	"golang.org/x/exp/maps"
	"golang.org/x/sync/singleflight"
)

const loadTimeout = 5 * time.Second

// roomHandle owns one live room. Every read and write of the room happens on
// the actor goroutine, one intent at a time, in arrival order.
type roomHandle struct {
	room    *domain.Room
	inputCh chan func()
	closeCh chan struct{}
	doneCh  chan struct{}
	once    sync.Once
	flusher *flusher
}

func newRoomHandle(r *domain.Room, f *flusher) *roomHandle {
	return &roomHandle{
		room:    r,
		inputCh: make(chan func()),
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
		flusher: f,
	}
}

func (h *roomHandle) Id() string {
	return h.room.Id()
}

func (h *roomHandle) run() {
	defer close(h.doneCh)
	for {
		select {
		case fn := <-h.inputCh:
			fn()
		case <-h.closeCh:
			return
		}
	}
}

// do runs fn on the actor and waits for it. Once the actor accepted fn it
// runs to completion regardless of ctx.
func (h *roomHandle) do(ctx context.Context, fn func() error) error {
	errCh := make(chan error, 1)
	task := func() {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "room intent panicked", "room_id", h.Id(), "panic", r)
				errCh <- fmt.Errorf("room intent panicked: %v", r)
			}
		}()

		errCh <- fn()
	}

	select {
	case h.inputCh <- task:
	case <-h.closeCh:
		return ErrRegistryClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	return <-errCh
}

// persist hands the current durable record to the flusher. Must run on the actor.
func (h *roomHandle) persist() {
	h.flusher.schedule(toRecord(h.room))
}

func (h *roomHandle) stop() {
	h.once.Do(func() { close(h.closeCh) })
	<-h.doneCh
}

type RegistryConfig struct {
	FlushRetries int
	FlushBackoff time.Duration
}

// Registry maps room ids to live rooms and creates each room at most once.
// Rooms stay live for the life of the process.
type Registry struct {
	rooms    map[string]*roomHandle
	mu       sync.RWMutex
	group    singleflight.Group
	roomRepo iRoomRepo
	cfg      RegistryConfig
	closed   bool
}

func NewRegistry(roomRepo iRoomRepo, cfg *RegistryConfig) *Registry {
	return &Registry{
		rooms:    make(map[string]*roomHandle),
		roomRepo: roomRepo,
		cfg:      *cfg,
	}
}

func (r *Registry) get(roomId string) (*roomHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.rooms[roomId]
	return h, ok
}

// GetOrCreate returns the live room for roomId, loading its durable record on
// first use. Concurrent first calls for one id share a single load.
func (r *Registry) GetOrCreate(ctx context.Context, roomId string) (*roomHandle, error) {
	if h, ok := r.get(roomId); ok {
		return h, nil
	}

	v, err, _ := r.group.Do(roomId, func() (any, error) {
		if h, ok := r.get(roomId); ok {
			return h, nil
		}

		// the load is shared with other callers, so it must outlive this one
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		h := newRoomHandle(
			domain.NewRoom(r.load(loadCtx, roomId)),
			newFlusher(roomId, r.roomRepo, r.cfg.FlushRetries, r.cfg.FlushBackoff),
		)

		r.mu.Lock()
		defer r.mu.Unlock()

		if r.closed {
			return nil, ErrRegistryClosed
		}

		r.rooms[roomId] = h
		go h.run()
		go h.flusher.run()

		slog.InfoContext(ctx, "room created", "room_id", roomId)

		return h, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*roomHandle), nil
}

// load falls back to a fresh room when the record is missing or unreadable.
func (r *Registry) load(ctx context.Context, roomId string) *domain.RoomParams {
	record, err := r.roomRepo.GetRoom(ctx, roomId)
	if err != nil {
		if !errors.Is(err, room.ErrRoomNotFound) {
			slog.ErrorContext(ctx, "failed to load room, starting fresh", "room_id", roomId, "error", err)
		}

		return &domain.RoomParams{Id: roomId}
	}

	return fromRecord(roomId, record)
}

// Rooms returns the live rooms ordered by id.
func (r *Registry) Rooms() []*roomHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := maps.Keys(r.rooms)
	slices.Sort(ids)

	rooms := make([]*roomHandle, 0, len(ids))
	for _, id := range ids {
		rooms = append(rooms, r.rooms[id])
	}

	return rooms
}

// Close stops every room and waits for pending writes to be flushed or ctx
// to be done.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, h := range r.Rooms() {
			h.stop()
			h.flusher.close()
		}
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to flush rooms: %w", ctx.Err())
	}
}
