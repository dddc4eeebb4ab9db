package room

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sharetube/frequency/internal/domain"
	"github.com/sharetube/frequency/internal/repository/room"
)

const writeTimeout = 5 * time.Second

// flusher writes a room's durable record in the background. Only the latest
// scheduled record is kept; play counts are queued and each written once.
type flusher struct {
	roomId   string
	roomRepo iRoomRepo
	retries  int
	backoff  time.Duration

	mu      sync.Mutex
	pending *room.Room
	plays   []room.IncrSongPlaysParams

	wakeCh  chan struct{}
	closeCh chan struct{}
	doneCh  chan struct{}
	once    sync.Once
}

func newFlusher(roomId string, roomRepo iRoomRepo, retries int, backoff time.Duration) *flusher {
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}

	return &flusher{
		roomId:   roomId,
		roomRepo: roomRepo,
		retries:  retries,
		backoff:  backoff,
		wakeCh:   make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (f *flusher) schedule(record room.Room) {
	f.mu.Lock()
	f.pending = &record
	f.mu.Unlock()

	f.wake()
}

func (f *flusher) schedulePlay(params room.IncrSongPlaysParams) {
	f.mu.Lock()
	f.plays = append(f.plays, params)
	f.mu.Unlock()

	f.wake()
}

func (f *flusher) wake() {
	select {
	case f.wakeCh <- struct{}{}:
	default:
	}
}

func (f *flusher) run() {
	defer close(f.doneCh)
	for {
		select {
		case <-f.wakeCh:
			f.flush()
		case <-f.closeCh:
			f.flush()
			return
		}
	}
}

// close flushes whatever is pending and stops the flusher.
func (f *flusher) close() {
	f.once.Do(func() { close(f.closeCh) })
	<-f.doneCh
}

func (f *flusher) take() (*room.Room, []room.IncrSongPlaysParams) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, plays := f.pending, f.plays
	f.pending, f.plays = nil, nil

	return record, plays
}

func (f *flusher) flush() {
	record, plays := f.take()

	for _, play := range plays {
		f.retry("incr song plays", func(ctx context.Context) error {
			return f.roomRepo.IncrSongPlays(ctx, &play)
		})
	}

	if record != nil {
		f.retry("set room", func(ctx context.Context) error {
			return f.roomRepo.SetRoom(ctx, &room.SetRoomParams{
				RoomId: f.roomId,
				Room:   *record,
			})
		})
	}
}

// retry makes up to retries+1 attempts with exponential backoff. Failures are
// logged and dropped; the live room stays authoritative.
func (f *flusher) retry(op string, fn func(context.Context) error) {
	backoff := f.backoff
	for attempt := 0; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := fn(ctx)
		cancel()
		if err == nil {
			return
		}

		if attempt >= f.retries {
			slog.Error("failed to persist room, giving up", "room_id", f.roomId, "op", op, "attempts", attempt+1, "error", err)
			return
		}

		slog.Warn("failed to persist room, retrying", "room_id", f.roomId, "op", op, "attempt", attempt+1, "error", err)

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-f.closeCh:
			slog.Error("failed to persist room before shutdown", "room_id", f.roomId, "op", op, "error", err)
			return
		}
	}
}

func toRecord(r *domain.Room) room.Room {
	player := room.Player{
		IsPlaying: r.Player.IsPlaying(),
		Position:  r.Player.Position(),
	}

	if r.Player.Track != nil {
		track := *r.Player.Track
		player.VideoId = &track.VideoId
		player.Title = &track.Title
		player.Thumbnail = &track.Thumbnail
	}

	if playing, ok := r.Player.State.(domain.Playing); ok {
		anchoredAt := playing.AnchoredAt.UnixMilli()
		player.AnchoredAt = &anchoredAt
	}

	var pinned *domain.ChatMessage
	if r.PinnedMessage != nil {
		msg := *r.PinnedMessage
		pinned = &msg
	}

	return room.Room{
		Player:        player,
		Playlist:      r.Playlist.Last(domain.PersistedPlaylistLimit),
		ChatHistory:   r.Chat.Last(domain.PersistedChatHistoryLimit),
		Owner:         r.Owner(),
		PinnedMessage: pinned,
	}
}

func fromRecord(roomId string, record room.Room) *domain.RoomParams {
	player := domain.NewPlayer()
	if record.Player.VideoId != nil {
		track := domain.Track{VideoId: *record.Player.VideoId}
		if record.Player.Title != nil {
			track.Title = *record.Player.Title
		}
		if record.Player.Thumbnail != nil {
			track.Thumbnail = *record.Player.Thumbnail
		}
		player.Track = &track
	}

	// a playing record without an anchor is restored as paused
	if record.Player.IsPlaying && record.Player.AnchoredAt != nil {
		player.State = domain.Playing{
			Position:   record.Player.Position,
			AnchoredAt: time.UnixMilli(*record.Player.AnchoredAt),
		}
	} else {
		player.State = domain.Stopped{Position: record.Player.Position}
	}

	return &domain.RoomParams{
		Id:            roomId,
		Owner:         record.Owner,
		Player:        player,
		Playlist:      record.Playlist,
		ChatHistory:   record.ChatHistory,
		PinnedMessage: record.PinnedMessage,
	}
}
