package room

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sharetube/frequency/internal/domain"
)

type ToggleSongPinParams struct {
	ConnectionId string
	VideoId      string
}

type ToggleSongPinResponse struct {
	Toggled  int
	Playlist []domain.Video
}

// ToggleSongPin flips the pin on every playlist entry of the video. The
// playlist is broadcast even when nothing matched.
func (s *service) ToggleSongPin(ctx context.Context, params *ToggleSongPinParams) (ToggleSongPinResponse, error) {
	if err := validate(ctx, params,
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.VideoId, validation.Required),
	); err != nil {
		return ToggleSongPinResponse{}, err
	}

	var resp ToggleSongPinResponse
	if err := s.withHost(ctx, params.ConnectionId, func(h *roomHandle, _ domain.Member) error {
		resp.Toggled = h.room.Playlist.TogglePin(params.VideoId)
		resp.Playlist = h.room.Playlist.AsList()
		h.persist()

		s.broadcast(ctx, h, Message{
			Type:    TypePlaylistUpdate,
			Payload: map[string]any{"playlist": resp.Playlist},
		})

		return nil
	}); err != nil {
		return ToggleSongPinResponse{}, err
	}

	return resp, nil
}
