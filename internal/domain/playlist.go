package domain

const (
	PlaylistLimit          = 100
	PersistedPlaylistLimit = 50
)

type Video struct {
	VideoId   string `json:"videoId"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	PlayedBy  string `json:"playedBy"`
	PlayedAt  int64  `json:"playedAt"`
	IsPinned  bool   `json:"isPinned"`
}

// Playlist is the play history of a room in play order. Entries are only
// appended, the oldest falling off past limit; pinning flips a flag in place.
type Playlist struct {
	list  []Video
	limit int
}

func NewPlaylist(videos []Video, limit int) *Playlist {
	p := &Playlist{limit: limit}
	for _, video := range videos {
		p.Add(video)
	}

	return p
}

func (p Playlist) Length() int {
	return len(p.list)
}

// AsList returns a copy safe to hand out of the room.
func (p Playlist) AsList() []Video {
	list := make([]Video, len(p.list))
	copy(list, p.list)

	return list
}

// Last returns a copy of at most n most recent entries.
func (p Playlist) Last(n int) []Video {
	start := 0
	if len(p.list) > n {
		start = len(p.list) - n
	}

	list := make([]Video, len(p.list)-start)
	copy(list, p.list[start:])

	return list
}

func (p *Playlist) Add(video Video) {
	p.list = append(p.list, video)
	if len(p.list) > p.limit {
		trimmed := make([]Video, p.limit)
		copy(trimmed, p.list[len(p.list)-p.limit:])
		p.list = trimmed
	}
}

// TogglePin flips IsPinned on every entry with videoId and reports how many
// entries changed.
func (p *Playlist) TogglePin(videoId string) int {
	toggled := 0
	for i := range p.list {
		if p.list[i].VideoId == videoId {
			p.list[i].IsPinned = !p.list[i].IsPinned
			toggled++
		}
	}

	return toggled
}
