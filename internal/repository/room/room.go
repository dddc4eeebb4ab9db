package room

import "github.com/sharetube/frequency/internal/domain"

// Player is the durable form of the playback anchor. AnchoredAt is unix
// milliseconds and is set only while IsPlaying.
type Player struct {
	VideoId    *string `json:"videoId"`
	Title      *string `json:"title"`
	Thumbnail  *string `json:"thumbnail"`
	IsPlaying  bool    `json:"isPlaying"`
	Position   float64 `json:"position"`
	AnchoredAt *int64  `json:"anchoredAt"`
}

type Room struct {
	Player        Player               `json:"playbackState"`
	Playlist      []domain.Video       `json:"playlist"`
	ChatHistory   []domain.ChatMessage `json:"chatHistory"`
	Owner         string               `json:"owner"`
	PinnedMessage *domain.ChatMessage  `json:"pinnedMessage"`
}

type Song struct {
	VideoId string `json:"id"`
	Title   string `json:"title"`
	Count   int64  `json:"count"`
}
