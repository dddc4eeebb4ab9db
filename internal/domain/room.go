package domain

// Room is the state of one frequency. It is not safe for concurrent use; the
// room service serializes every access to it.
type Room struct {
	id            string
	owner         string
	Player        Player
	Playlist      *Playlist
	Chat          *Chat
	Members       *Members
	PinnedMessage *ChatMessage
}

type RoomParams struct {
	Id            string
	Owner         string
	Player        Player
	Playlist      []Video
	ChatHistory   []ChatMessage
	PinnedMessage *ChatMessage
}

func NewRoom(params *RoomParams) *Room {
	player := params.Player
	if player.State == nil {
		player.State = Stopped{}
	}

	owner := params.Owner
	if owner == "" {
		owner = params.Id
	}

	return &Room{
		id:            params.Id,
		owner:         owner,
		Player:        player,
		Playlist:      NewPlaylist(params.Playlist, PlaylistLimit),
		Chat:          NewChat(params.ChatHistory, ChatHistoryLimit),
		Members:       NewMembers(),
		PinnedMessage: params.PinnedMessage,
	}
}

func (r Room) Id() string {
	return r.id
}

func (r Room) Owner() string {
	return r.owner
}
