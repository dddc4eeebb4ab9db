package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sharetube/frequency/internal/service/room"
	"github.com/sharetube/frequency/internal/service/user"
	"github.com/sharetube/frequency/pkg/validator"
	"github.com/sharetube/frequency/pkg/wsrouter"
)

type iRoomService interface {
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	DisconnectMember(context.Context, *room.DisconnectMemberParams) (room.DisconnectMemberResponse, error)
	PlaySong(context.Context, *room.PlaySongParams) (room.PlaySongResponse, error)
	TogglePlayback(context.Context, *room.TogglePlaybackParams) (room.TogglePlaybackResponse, error)
	Seek(context.Context, *room.SeekParams) (room.SeekResponse, error)
	ToggleSongPin(context.Context, *room.ToggleSongPinParams) (room.ToggleSongPinResponse, error)
	SendChatMessage(context.Context, *room.SendChatMessageParams) (room.SendChatMessageResponse, error)
	SendReaction(context.Context, *room.SendReactionParams) error
	PinMessage(context.Context, *room.PinMessageParams) (room.PinMessageResponse, error)
	GetDiscovery(context.Context) (room.GetDiscoveryResponse, error)
}

type iUserService interface {
	Register(context.Context, *user.RegisterParams) (user.AuthResponse, error)
	Login(context.Context, *user.LoginParams) (user.AuthResponse, error)
	ParseToken(token string) (string, error)
}

type iConnRepo interface {
	Add(connectionId string, conn *websocket.Conn) error
	Remove(connectionId string) error
}

type Config struct {
	// RequireAuth rejects websocket upgrades without a valid token.
	RequireAuth bool
}

type controller struct {
	roomService iRoomService
	userService iUserService
	connRepo    iConnRepo
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	wsmux       *wsrouter.WSRouter
	logger      *slog.Logger
	requireAuth bool
}

func NewController(roomService iRoomService, userService iUserService, connRepo iConnRepo, logger *slog.Logger, cfg *Config) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService: roomService,
		userService: userService,
		connRepo:    connRepo,
		validate:    validator.NewValidator(),
		logger:      logger,
		requireAuth: cfg.RequireAuth,
	}
	c.wsmux = c.getWSRouter()

	return c
}
