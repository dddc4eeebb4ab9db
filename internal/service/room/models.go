package room

import (
	"time"

	"github.com/sharetube/frequency/internal/domain"
)

const (
	TypeInitialState        = "initial-state"
	TypeUserListUpdate      = "user-list-update"
	TypePlaySong            = "play-song"
	TypePlaybackStateChange = "playback-state-change"
	TypeSeek                = "seek"
	TypeChatMessage         = "chat-message"
	TypePlaylistUpdate      = "playlist-update"
	TypeReaction            = "reaction"
	TypePinnedMessageUpdate = "pinned-message-update"
)

// Message is an outbound frame.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// PlaybackState is the wire form of the player. StartedAt is the unix
// millisecond instant the track would have been at 0 and is set only while
// playing.
type PlaybackState struct {
	VideoId     *string `json:"videoId"`
	IsPlaying   bool    `json:"isPlaying"`
	CurrentTime float64 `json:"currentTime"`
	StartedAt   *int64  `json:"startedAt"`
	Title       *string `json:"title"`
	Thumbnail   *string `json:"thumbnail"`
}

func newPlaybackState(p domain.Player, currentTime float64) PlaybackState {
	state := PlaybackState{
		IsPlaying:   p.IsPlaying(),
		CurrentTime: currentTime,
	}

	if p.Track != nil {
		track := *p.Track
		state.VideoId = &track.VideoId
		state.Title = &track.Title
		state.Thumbnail = &track.Thumbnail
	}

	if playing, ok := p.State.(domain.Playing); ok {
		startedAt := playing.StartedAt().UnixMilli()
		state.StartedAt = &startedAt
	}

	return state
}

// anchoredPlaybackState reports the position as of the last anchor.
func anchoredPlaybackState(p domain.Player) PlaybackState {
	return newPlaybackState(p, p.Position())
}

// projectedPlaybackState reports the position projected to now.
func projectedPlaybackState(p domain.Player, now time.Time) PlaybackState {
	return newPlaybackState(p, p.Project(now))
}

type InitialState struct {
	Users         []domain.Member      `json:"users"`
	IsHost        bool                 `json:"isHost"`
	PlaybackState PlaybackState        `json:"playbackState"`
	Playlist      []domain.Video       `json:"playlist"`
	ChatHistory   []domain.ChatMessage `json:"chatHistory"`
	PinnedMessage *domain.ChatMessage  `json:"pinnedMessage"`
}

type CurrentSong struct {
	VideoId     string  `json:"videoId"`
	Title       string  `json:"title"`
	Thumbnail   string  `json:"thumbnail"`
	IsPlaying   bool    `json:"isPlaying"`
	CurrentTime float64 `json:"currentTime"`
}

type ActiveRoom struct {
	Slug        string       `json:"slug"`
	Listeners   int          `json:"listeners"`
	CurrentSong *CurrentSong `json:"currentSong"`
	Owner       string       `json:"owner"`
}

type TopSong struct {
	Id    string `json:"id"`
	Title string `json:"title"`
	Count int64  `json:"count"`
}
