package controller

import (
	"github.com/sharetube/frequency/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdMw(), c.loggerWSMw(), c.validateWSMw())
	mux.OnError(c.handleWSError)

	// member
	wsrouter.Handle(mux, "join-frequency", c.handleJoinFrequency)

	// player
	wsrouter.Handle(mux, "play-song", c.handlePlaySong)
	wsrouter.Handle(mux, "toggle-playback", c.handleTogglePlayback)
	wsrouter.Handle(mux, "seek", c.handleSeek)

	// playlist
	wsrouter.Handle(mux, "toggle-song-pin", c.handleToggleSongPin)

	// chat
	wsrouter.Handle(mux, "chat-message", c.handleChatMessage)
	wsrouter.Handle(mux, "reaction", c.handleReaction)
	wsrouter.Handle(mux, "pin-message", c.handlePinMessage)

	return mux
}
