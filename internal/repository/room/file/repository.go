package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sharetube/frequency/internal/repository/room"
)

// repo keeps one JSON document per room and a single play counter document.
type repo struct {
	dir string
	mu  sync.Mutex
}

func NewRepo(dir string) (*repo, error) {
	if err := os.MkdirAll(filepath.Join(dir, "rooms"), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	return &repo{dir: dir}, nil
}

func (r *repo) getRoomPath(roomId string) string {
	return filepath.Join(r.dir, "rooms", url.PathEscape(roomId)+".json")
}

func (r *repo) getSongsPath() string {
	return filepath.Join(r.dir, "songs.json")
}

func (r *repo) SetRoom(_ context.Context, params *room.SetRoomParams) error {
	if err := writeJSON(r.getRoomPath(params.RoomId), &params.Room); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (r *repo) GetRoom(_ context.Context, roomId string) (room.Room, error) {
	var res room.Room
	found, err := readJSON(r.getRoomPath(roomId), &res)
	if err != nil {
		return room.Room{}, fmt.Errorf("%w: %w", room.ErrInvalidRoom, err)
	}

	if !found {
		return room.Room{}, room.ErrRoomNotFound
	}

	return res, nil
}

type songRecord struct {
	Title string `json:"title"`
	Count int64  `json:"count"`
}

func (r *repo) IncrSongPlays(_ context.Context, params *room.IncrSongPlaysParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	songs := make(map[string]songRecord)
	if _, err := readJSON(r.getSongsPath(), &songs); err != nil {
		return fmt.Errorf("failed to read songs: %w", err)
	}

	song := songs[params.VideoId]
	song.Title = params.Title
	song.Count++
	songs[params.VideoId] = song

	if err := writeJSON(r.getSongsPath(), songs); err != nil {
		return fmt.Errorf("failed to write songs: %w", err)
	}

	return nil
}

func (r *repo) GetTopSongs(_ context.Context, limit int) ([]room.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	songs := make(map[string]songRecord)
	if _, err := readJSON(r.getSongsPath(), &songs); err != nil {
		return nil, fmt.Errorf("failed to read songs: %w", err)
	}

	res := make([]room.Song, 0, len(songs))
	for videoId, song := range songs {
		res = append(res, room.Song{VideoId: videoId, Title: song.Title, Count: song.Count})
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].VideoId < res[j].VideoId
	})

	if limit < 0 {
		limit = 0
	}
	if len(res) > limit {
		res = res[:limit]
	}

	return res, nil
}

// readJSON reports false when the file does not exist.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	if len(data) == 0 {
		return true, nil
	}

	return true, json.Unmarshal(data, v)
}

// writeJSON replaces path atomically.
func writeJSON(path string, v any) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}

	if err := json.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close tmp: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}

	return nil
}
