package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sharetube/frequency/internal/repository/connection"
	"github.com/sharetube/frequency/internal/service/room"
	"github.com/sharetube/frequency/pkg/ctxlogger"
	"github.com/sharetube/frequency/pkg/rest"
)

const maxMessageSize = 64 << 10

// serveWS upgrades the request and serves one connection until it closes.
// A token may be passed as ?token=; its username overrides the one sent on join.
func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var username string
	if token := r.URL.Query().Get("token"); token != "" {
		var err error
		username, err = c.userService.ParseToken(token)
		if err != nil {
			c.logger.DebugContext(ctx, "failed to parse token", "error", err)
			rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "invalid token"})
			return
		}
	} else if c.requireAuth {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "token required"})
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to upgrade to websocket", "error", err)
		return
	}

	connectionId := uuid.NewString()
	ctx = ctxlogger.AppendCtx(ctx, slog.String("connection_id", connectionId))
	ctx = context.WithValue(ctx, connectionIdCtxKey, connectionId)
	if username != "" {
		ctx = context.WithValue(ctx, usernameCtxKey, username)
	}

	if err := c.connRepo.Add(connectionId, conn); err != nil {
		c.logger.WarnContext(ctx, "failed to add connection", "error", err)
		conn.Close()
		return
	}
	defer c.disconnect(ctx, connectionId)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(connection.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(connection.PongWait))
	})

	c.logger.InfoContext(ctx, "websocket connected")
	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
			c.logger.InfoContext(ctx, "websocket closed unexpectedly", "error", err)
		}
	}
}

func (c controller) disconnect(ctx context.Context, connectionId string) {
	// the request context is already done once the peer has gone
	ctx = context.WithoutCancel(ctx)

	if _, err := c.roomService.DisconnectMember(ctx, &room.DisconnectMemberParams{
		ConnectionId: connectionId,
	}); err != nil && !errors.Is(err, room.ErrMemberNotFound) {
		c.logger.WarnContext(ctx, "failed to disconnect member", "error", err)
	}

	if err := c.connRepo.Remove(connectionId); err != nil {
		c.logger.DebugContext(ctx, "failed to remove connection", "error", err)
	}

	c.logger.InfoContext(ctx, "websocket disconnected")
}

// User is the profile sent on join. IsHost is ignored; authority is resolved
// by the server.
type User struct {
	Username string `json:"username" validate:"max=32"`
	Avatar   string `json:"avatar" validate:"max=16"`
	IsHost   bool   `json:"isHost"`
}

type JoinFrequencyInput struct {
	Slug string `json:"slug" validate:"required,max=64"`
	User User   `json:"user"`
}

func (c controller) handleJoinFrequency(ctx context.Context, _ *websocket.Conn, input JoinFrequencyInput) error {
	username := input.User.Username
	if tokenUsername := c.getUsernameFromCtx(ctx); tokenUsername != "" {
		username = tokenUsername
	}

	if _, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		RoomId:       input.Slug,
		Username:     username,
		Avatar:       input.User.Avatar,
	}); err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	return nil
}

type PlaySongInput struct {
	VideoId   string `json:"videoId" validate:"required,max=64"`
	Title     string `json:"title" validate:"max=256"`
	Thumbnail string `json:"thumbnail" validate:"max=2048"`
}

func (c controller) handlePlaySong(ctx context.Context, _ *websocket.Conn, input PlaySongInput) error {
	if _, err := c.roomService.PlaySong(ctx, &room.PlaySongParams{
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		VideoId:      input.VideoId,
		Title:        input.Title,
		Thumbnail:    input.Thumbnail,
	}); err != nil {
		return fmt.Errorf("failed to play song: %w", err)
	}

	return nil
}

type TogglePlaybackInput struct {
	IsPlaying   bool    `json:"isPlaying"`
	CurrentTime float64 `json:"currentTime" validate:"gte=0"`
}

func (c controller) handleTogglePlayback(ctx context.Context, _ *websocket.Conn, input TogglePlaybackInput) error {
	if _, err := c.roomService.TogglePlayback(ctx, &room.TogglePlaybackParams{
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		IsPlaying:    input.IsPlaying,
		CurrentTime:  input.CurrentTime,
	}); err != nil {
		return fmt.Errorf("failed to toggle playback: %w", err)
	}

	return nil
}

type SeekInput struct {
	Time float64 `json:"time" validate:"gte=0"`
}

func (c controller) handleSeek(ctx context.Context, _ *websocket.Conn, input SeekInput) error {
	if _, err := c.roomService.Seek(ctx, &room.SeekParams{
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		Time:         input.Time,
	}); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	return nil
}

type ChatMessageInput struct {
	Text string `json:"text" validate:"required,max=500"`
}

func (c controller) handleChatMessage(ctx context.Context, _ *websocket.Conn, input ChatMessageInput) error {
	if _, err := c.roomService.SendChatMessage(ctx, &room.SendChatMessageParams{
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		Text:         input.Text,
	}); err != nil {
		return fmt.Errorf("failed to send chat message: %w", err)
	}

	return nil
}

type ToggleSongPinInput struct {
	VideoId string `json:"videoId" validate:"required"`
}

func (c controller) handleToggleSongPin(ctx context.Context, _ *websocket.Conn, input ToggleSongPinInput) error {
	if _, err := c.roomService.ToggleSongPin(ctx, &room.ToggleSongPinParams{
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		VideoId:      input.VideoId,
	}); err != nil {
		return fmt.Errorf("failed to toggle song pin: %w", err)
	}

	return nil
}

type ReactionInput struct {
	Symbol string `json:"symbol" validate:"required,max=16"`
}

func (c controller) handleReaction(ctx context.Context, _ *websocket.Conn, input ReactionInput) error {
	if err := c.roomService.SendReaction(ctx, &room.SendReactionParams{
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		Symbol:       input.Symbol,
	}); err != nil {
		return fmt.Errorf("failed to send reaction: %w", err)
	}

	return nil
}

type PinMessageInput struct {
	Text string `json:"text" validate:"max=500"`
}

func (c controller) handlePinMessage(ctx context.Context, _ *websocket.Conn, input PinMessageInput) error {
	if _, err := c.roomService.PinMessage(ctx, &room.PinMessageParams{
		ConnectionId: c.getConnectionIdFromCtx(ctx),
		Text:         input.Text,
	}); err != nil {
		return fmt.Errorf("failed to pin message: %w", err)
	}

	return nil
}
