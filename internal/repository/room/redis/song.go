package redis

import (
	"context"
	"fmt"

	"github.com/sharetube/frequency/internal/repository/room"
)

const (
	songPlaysKey  = "songs:plays"
	songTitlesKey = "songs:titles"
)

func (r repo) IncrSongPlays(ctx context.Context, params *room.IncrSongPlaysParams) error {
	pipe := r.rc.TxPipeline()
	pipe.ZIncrBy(ctx, songPlaysKey, 1, params.VideoId)
	pipe.HSet(ctx, songTitlesKey, params.VideoId, params.Title)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to incr song plays: %w", err)
	}

	return nil
}

// GetTopSongs returns the most played songs across all rooms, most played first.
func (r repo) GetTopSongs(ctx context.Context, limit int) ([]room.Song, error) {
	if limit <= 0 {
		return []room.Song{}, nil
	}

	plays, err := r.rc.ZRevRangeWithScores(ctx, songPlaysKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get song plays: %w", err)
	}

	if len(plays) == 0 {
		return []room.Song{}, nil
	}

	videoIds := make([]string, 0, len(plays))
	for _, play := range plays {
		videoIds = append(videoIds, play.Member.(string))
	}

	titles, err := r.rc.HMGet(ctx, songTitlesKey, videoIds...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get song titles: %w", err)
	}

	songs := make([]room.Song, 0, len(plays))
	for i, play := range plays {
		title, _ := titles[i].(string)
		songs = append(songs, room.Song{
			VideoId: videoIds[i],
			Title:   title,
			Count:   int64(play.Score),
		})
	}

	return songs, nil
}
