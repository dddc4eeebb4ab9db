package room

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sharetube/frequency/internal/domain"
)

type SendChatMessageParams struct {
	ConnectionId string
	Text         string
}

type SendChatMessageResponse struct {
	Entry domain.ChatMessage
}

func (s *service) SendChatMessage(ctx context.Context, params *SendChatMessageParams) (SendChatMessageResponse, error) {
	if err := validate(ctx, params,
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.Text, TextRule...),
	); err != nil {
		return SendChatMessageResponse{}, err
	}

	var resp SendChatMessageResponse
	if err := s.withMember(ctx, params.ConnectionId, func(h *roomHandle, member domain.Member) error {
		resp.Entry = domain.NewUserMessage(member.Username, member.Avatar, params.Text, s.now())
		h.room.Chat.Add(resp.Entry)
		h.persist()

		s.broadcast(ctx, h, Message{
			Type:    TypeChatMessage,
			Payload: map[string]any{"entry": resp.Entry},
		})

		return nil
	}); err != nil {
		return SendChatMessageResponse{}, err
	}

	return resp, nil
}

type SendReactionParams struct {
	ConnectionId string
	Symbol       string
}

// SendReaction relays an ephemeral reaction. Nothing is stored.
func (s *service) SendReaction(ctx context.Context, params *SendReactionParams) error {
	if err := validate(ctx, params,
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.Symbol, SymbolRule...),
	); err != nil {
		return err
	}

	return s.withMember(ctx, params.ConnectionId, func(h *roomHandle, _ domain.Member) error {
		s.broadcast(ctx, h, Message{
			Type:    TypeReaction,
			Payload: map[string]any{"symbol": params.Symbol},
		})

		return nil
	})
}

type PinMessageParams struct {
	ConnectionId string
	Text         string
}

type PinMessageResponse struct {
	PinnedMessage *domain.ChatMessage
}

// PinMessage sets the room's pinned message. Empty text clears it.
func (s *service) PinMessage(ctx context.Context, params *PinMessageParams) (PinMessageResponse, error) {
	if err := validate(ctx, params,
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.Text, PinTextRule...),
	); err != nil {
		return PinMessageResponse{}, err
	}

	var resp PinMessageResponse
	if err := s.withHost(ctx, params.ConnectionId, func(h *roomHandle, member domain.Member) error {
		if params.Text == "" {
			h.room.PinnedMessage = nil
		} else {
			msg := domain.NewUserMessage(member.Username, member.Avatar, params.Text, s.now())
			h.room.PinnedMessage = &msg
			pinned := msg
			resp.PinnedMessage = &pinned
		}
		h.persist()

		s.broadcast(ctx, h, Message{
			Type:    TypePinnedMessageUpdate,
			Payload: map[string]any{"pinnedMessage": resp.PinnedMessage},
		})

		return nil
	}); err != nil {
		return PinMessageResponse{}, err
	}

	return resp, nil
}
