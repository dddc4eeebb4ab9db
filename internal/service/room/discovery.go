package room

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

type GetDiscoveryResponse struct {
	Active   []ActiveRoom `json:"active"`
	TopSongs []TopSong    `json:"topSongs"`
}

// GetDiscovery lists rooms with at least one listener, busiest first, and the
// most played songs across all rooms.
func (s *service) GetDiscovery(ctx context.Context) (GetDiscoveryResponse, error) {
	now := s.now()
	active := make([]ActiveRoom, 0)
	for _, h := range s.registry.Rooms() {
		var (
			activeRoom ActiveRoom
			listening  bool
		)
		if err := h.do(ctx, func() error {
			r := h.room
			if r.Members.Length() == 0 {
				return nil
			}

			listening = true
			activeRoom = ActiveRoom{
				Slug:      r.Id(),
				Listeners: r.Members.Length(),
				Owner:     r.Owner(),
			}

			if r.Player.Track != nil {
				activeRoom.CurrentSong = &CurrentSong{
					VideoId:     r.Player.Track.VideoId,
					Title:       r.Player.Track.Title,
					Thumbnail:   r.Player.Track.Thumbnail,
					IsPlaying:   r.Player.IsPlaying(),
					CurrentTime: r.Player.Project(now),
				}
			}

			return nil
		}); err != nil {
			slog.DebugContext(ctx, "failed to read room", "room_id", h.Id(), "error", err)
			continue
		}

		if listening {
			active = append(active, activeRoom)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Listeners != active[j].Listeners {
			return active[i].Listeners > active[j].Listeners
		}
		return active[i].Slug < active[j].Slug
	})

	songs, err := s.roomRepo.GetTopSongs(ctx, s.topSongsLimit)
	if err != nil {
		return GetDiscoveryResponse{}, fmt.Errorf("failed to get top songs: %w", err)
	}

	topSongs := make([]TopSong, 0, len(songs))
	for _, song := range songs {
		topSongs = append(topSongs, TopSong{
			Id:    song.VideoId,
			Title: song.Title,
			Count: song.Count,
		})
	}

	return GetDiscoveryResponse{
		Active:   active,
		TopSongs: topSongs,
	}, nil
}
