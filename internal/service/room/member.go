package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sharetube/frequency/internal/domain"
)

type JoinRoomParams struct {
	ConnectionId string
	RoomId       string
	Username     string
	Avatar       string
}

type JoinRoomResponse struct {
	JoinedMember domain.Member
	InitialState InitialState
}

// JoinRoom adds the connection to the room, creating the room on first use.
// Authority is resolved from the username once, here.
func (s *service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	if err := validate(ctx, params,
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.RoomId, RoomIdRule...),
		validation.Field(&params.Username, UsernameRule...),
		validation.Field(&params.Avatar, AvatarRule...),
	); err != nil {
		return JoinRoomResponse{}, err
	}

	if err := s.claim(params.ConnectionId, params.RoomId); err != nil {
		return JoinRoomResponse{}, err
	}

	h, err := s.registry.GetOrCreate(ctx, params.RoomId)
	if err != nil {
		s.release(params.ConnectionId)
		return JoinRoomResponse{}, fmt.Errorf("failed to get room: %w", err)
	}

	var resp JoinRoomResponse
	if err := h.do(ctx, func() error {
		now := s.now()
		r := h.room

		member := domain.Member{
			ConnectionId: params.ConnectionId,
			Username:     params.Username,
			Avatar:       params.Avatar,
			IsHost:       ResolveAuthority(r.Id(), params.Username),
		}
		if err := r.Members.Add(member); err != nil {
			if errors.Is(err, domain.ErrMemberAlreadyExists) {
				return ErrAlreadyJoined
			}
			return err
		}

		resp = JoinRoomResponse{
			JoinedMember: member,
			InitialState: InitialState{
				Users:         r.Members.AsList(),
				IsHost:        member.IsHost,
				PlaybackState: projectedPlaybackState(r.Player, now),
				Playlist:      r.Playlist.AsList(),
				ChatHistory:   r.Chat.Last(domain.PersistedChatHistoryLimit),
				PinnedMessage: copyMessage(r.PinnedMessage),
			},
		}

		joined := domain.NewSystemMessage(fmt.Sprintf("%s joined", member.Username), now)
		r.Chat.Add(joined)
		h.persist()

		s.send(ctx, member.ConnectionId, Message{
			Type:    TypeInitialState,
			Payload: resp.InitialState,
		})
		s.broadcastUsers(ctx, h)
		s.broadcast(ctx, h, Message{
			Type:    TypeChatMessage,
			Payload: map[string]any{"entry": joined},
		})

		return nil
	}); err != nil {
		s.release(params.ConnectionId)
		return JoinRoomResponse{}, err
	}

	slog.InfoContext(ctx, "member joined", "room_id", params.RoomId, "username", params.Username, "is_host", resp.JoinedMember.IsHost)

	return resp, nil
}

type DisconnectMemberParams struct {
	ConnectionId string
}

type DisconnectMemberResponse struct {
	RoomId     string
	LeftMember domain.Member
}

// DisconnectMember removes the connection from its room. The room itself
// stays live with its last state.
func (s *service) DisconnectMember(ctx context.Context, params *DisconnectMemberParams) (DisconnectMemberResponse, error) {
	roomId, ok := s.release(params.ConnectionId)
	if !ok {
		return DisconnectMemberResponse{}, ErrMemberNotFound
	}

	h, err := s.registry.GetOrCreate(ctx, roomId)
	if err != nil {
		return DisconnectMemberResponse{}, fmt.Errorf("failed to get room: %w", err)
	}

	resp := DisconnectMemberResponse{RoomId: roomId}
	if err := h.do(ctx, func() error {
		member, err := h.room.Members.RemoveByConnectionId(params.ConnectionId)
		if err != nil {
			return ErrMemberNotFound
		}
		resp.LeftMember = member

		left := domain.NewSystemMessage(fmt.Sprintf("%s left", member.Username), s.now())
		h.room.Chat.Add(left)
		h.persist()

		s.broadcastUsers(ctx, h)
		s.broadcast(ctx, h, Message{
			Type:    TypeChatMessage,
			Payload: map[string]any{"entry": left},
		})

		return nil
	}); err != nil {
		return DisconnectMemberResponse{}, err
	}

	slog.InfoContext(ctx, "member left", "room_id", roomId, "username", resp.LeftMember.Username)

	return resp, nil
}

func (s *service) broadcastUsers(ctx context.Context, h *roomHandle) {
	s.broadcast(ctx, h, Message{
		Type:    TypeUserListUpdate,
		Payload: map[string]any{"users": h.room.Members.AsList()},
	})
}

func copyMessage(msg *domain.ChatMessage) *domain.ChatMessage {
	if msg == nil {
		return nil
	}

	c := *msg
	return &c
}
