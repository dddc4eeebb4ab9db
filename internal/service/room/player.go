package room

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sharetube/frequency/internal/domain"
	"github.com/sharetube/frequency/internal/repository/room"
)

type PlaySongParams struct {
	ConnectionId string
	VideoId      string
	Title        string
	Thumbnail    string
}

type PlaySongResponse struct {
	PlaybackState PlaybackState
	Playlist      []domain.Video
}

// PlaySong loads a track and restarts it from 0, even when it is the track
// already playing. The play is appended to the playlist and counted.
func (s *service) PlaySong(ctx context.Context, params *PlaySongParams) (PlaySongResponse, error) {
	if err := validate(ctx, params,
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.VideoId, VideoIdRule...),
		validation.Field(&params.Title, TitleRule...),
		validation.Field(&params.Thumbnail, ThumbnailRule...),
	); err != nil {
		return PlaySongResponse{}, err
	}

	var resp PlaySongResponse
	if err := s.withHost(ctx, params.ConnectionId, func(h *roomHandle, member domain.Member) error {
		now := s.now()
		r := h.room

		r.Player.Load(domain.Track{
			VideoId:   params.VideoId,
			Title:     params.Title,
			Thumbnail: params.Thumbnail,
		}, now)
		r.Playlist.Add(domain.Video{
			VideoId:   params.VideoId,
			Title:     params.Title,
			Thumbnail: params.Thumbnail,
			PlayedBy:  member.Username,
			PlayedAt:  now.UnixMilli(),
		})

		h.flusher.schedulePlay(room.IncrSongPlaysParams{
			VideoId: params.VideoId,
			Title:   params.Title,
		})
		h.persist()

		resp = PlaySongResponse{
			PlaybackState: anchoredPlaybackState(r.Player),
			Playlist:      r.Playlist.AsList(),
		}

		s.broadcast(ctx, h, Message{
			Type:    TypePlaySong,
			Payload: map[string]any{"playbackState": resp.PlaybackState},
		})
		s.broadcast(ctx, h, Message{
			Type:    TypePlaylistUpdate,
			Payload: map[string]any{"playlist": resp.Playlist},
		})

		return nil
	}); err != nil {
		return PlaySongResponse{}, err
	}

	return resp, nil
}

type TogglePlaybackParams struct {
	ConnectionId string
	IsPlaying    bool
	CurrentTime  float64
}

type TogglePlaybackResponse struct {
	PlaybackState PlaybackState
}

func (s *service) TogglePlayback(ctx context.Context, params *TogglePlaybackParams) (TogglePlaybackResponse, error) {
	if err := validate(ctx, params,
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.CurrentTime, TimeRule...),
	); err != nil {
		return TogglePlaybackResponse{}, err
	}

	var resp TogglePlaybackResponse
	if err := s.withHost(ctx, params.ConnectionId, func(h *roomHandle, _ domain.Member) error {
		h.room.Player.SetPlaying(params.IsPlaying, params.CurrentTime, s.now())
		h.persist()

		resp.PlaybackState = anchoredPlaybackState(h.room.Player)
		s.broadcast(ctx, h, Message{
			Type:    TypePlaybackStateChange,
			Payload: map[string]any{"playbackState": resp.PlaybackState},
		})

		return nil
	}); err != nil {
		return TogglePlaybackResponse{}, err
	}

	return resp, nil
}

type SeekParams struct {
	ConnectionId string
	Time         float64
}

type SeekResponse struct {
	Time float64
}

func (s *service) Seek(ctx context.Context, params *SeekParams) (SeekResponse, error) {
	if err := validate(ctx, params,
		validation.Field(&params.ConnectionId, ConnectionIdRule...),
		validation.Field(&params.Time, TimeRule...),
	); err != nil {
		return SeekResponse{}, err
	}

	if err := s.withHost(ctx, params.ConnectionId, func(h *roomHandle, _ domain.Member) error {
		h.room.Player.Seek(params.Time, s.now())
		h.persist()

		s.broadcast(ctx, h, Message{
			Type:    TypeSeek,
			Payload: map[string]any{"time": params.Time},
		})

		return nil
	}); err != nil {
		return SeekResponse{}, err
	}

	return SeekResponse{Time: params.Time}, nil
}
