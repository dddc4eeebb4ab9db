package redis

import (
	"context"
	"fmt"

	"github.com/sharetube/frequency/internal/domain"
	"github.com/sharetube/frequency/internal/repository/room"
)

type roomHash struct {
	Player        string `redis:"playback_state"`
	Playlist      string `redis:"playlist"`
	ChatHistory   string `redis:"chat_history"`
	Owner         string `redis:"owner"`
	PinnedMessage string `redis:"pinned_message"`
}

func (r repo) getRoomKey(roomId string) string {
	return "room:" + roomId
}

func (r repo) SetRoom(ctx context.Context, params *room.SetRoomParams) error {
	player, err := r.marshalField(params.Room.Player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	playlist, err := r.marshalField(params.Room.Playlist)
	if err != nil {
		return fmt.Errorf("failed to marshal playlist: %w", err)
	}

	chatHistory, err := r.marshalField(params.Room.ChatHistory)
	if err != nil {
		return fmt.Errorf("failed to marshal chat history: %w", err)
	}

	var pinnedMessage string
	if params.Room.PinnedMessage != nil {
		if pinnedMessage, err = r.marshalField(params.Room.PinnedMessage); err != nil {
			return fmt.Errorf("failed to marshal pinned message: %w", err)
		}
	}

	roomKey := r.getRoomKey(params.RoomId)
	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, roomKey, roomHash{
		Player:        player,
		Playlist:      playlist,
		ChatHistory:   chatHistory,
		Owner:         params.Room.Owner,
		PinnedMessage: pinnedMessage,
	})
	r.expire(ctx, pipe, roomKey)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (r repo) GetRoom(ctx context.Context, roomId string) (room.Room, error) {
	roomKey := r.getRoomKey(roomId)
	cmd := r.rc.HGetAll(ctx, roomKey)
	if err := cmd.Err(); err != nil {
		return room.Room{}, fmt.Errorf("failed to get room: %w", err)
	}

	if len(cmd.Val()) == 0 {
		return room.Room{}, room.ErrRoomNotFound
	}

	var hash roomHash
	if err := cmd.Scan(&hash); err != nil {
		return room.Room{}, fmt.Errorf("failed to scan room: %w", err)
	}

	res := room.Room{Owner: hash.Owner}
	if err := r.unmarshalField(hash.Player, &res.Player); err != nil {
		return room.Room{}, fmt.Errorf("%w: player: %w", room.ErrInvalidRoom, err)
	}

	if err := r.unmarshalField(hash.Playlist, &res.Playlist); err != nil {
		return room.Room{}, fmt.Errorf("%w: playlist: %w", room.ErrInvalidRoom, err)
	}

	if err := r.unmarshalField(hash.ChatHistory, &res.ChatHistory); err != nil {
		return room.Room{}, fmt.Errorf("%w: chat history: %w", room.ErrInvalidRoom, err)
	}

	if hash.PinnedMessage != "" {
		var pinned domain.ChatMessage
		if err := r.unmarshalField(hash.PinnedMessage, &pinned); err != nil {
			return room.Room{}, fmt.Errorf("%w: pinned message: %w", room.ErrInvalidRoom, err)
		}
		res.PinnedMessage = &pinned
	}

	r.expire(ctx, r.rc, roomKey)

	return res, nil
}
