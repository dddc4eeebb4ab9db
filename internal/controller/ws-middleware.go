package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sharetube/frequency/internal/service/room"
	"github.com/sharetube/frequency/pkg/ctxlogger"
	"github.com/sharetube/frequency/pkg/wsrouter"
)

func (c controller) wsRequestIdMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc[any]) wsrouter.HandlerFunc[any] {
		return func(ctx context.Context, conn *websocket.Conn, payload any) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("ws_request_id", uuid.NewString()))
			return next(ctx, conn, payload)
		}
	}
}

var ErrInvalidInput = errors.New("invalid input")

// validateWSMw rejects payloads that fail their validate tags.
func (c controller) validateWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc[any]) wsrouter.HandlerFunc[any] {
		return func(ctx context.Context, conn *websocket.Conn, payload any) error {
			if validationErrors, ok := c.validate.Validate(payload); !ok {
				return fmt.Errorf("%w: %v", ErrInvalidInput, validationErrors)
			}

			return next(ctx, conn, payload)
		}
	}
}

func (c controller) loggerWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc[any]) wsrouter.HandlerFunc[any] {
		return func(ctx context.Context, conn *websocket.Conn, payload any) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("message_type", wsrouter.GetMessageTypeFromCtx(ctx)))
			c.logger.DebugContext(ctx, "websocket message received", "payload", payload)

			start := time.Now()
			err := next(ctx, conn, payload)

			c.logger.DebugContext(ctx, "websocket message handled",
				"processing_time_us", time.Since(start).Microseconds(),
			)

			return err
		}
	}
}

// handleWSError drops the failed message without telling the sender.
func (c controller) handleWSError(ctx context.Context, _ *websocket.Conn, err error) {
	switch {
	case errors.Is(err, room.ErrPermissionDenied),
		errors.Is(err, room.ErrMemberNotFound),
		errors.Is(err, room.ErrValidation),
		errors.Is(err, room.ErrAlreadyJoined),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, wsrouter.ErrInvalidMessage),
		errors.Is(err, wsrouter.ErrUnknownType),
		errors.Is(err, wsrouter.ErrInvalidPayload):
		c.logger.DebugContext(ctx, "websocket message dropped", "type", wsrouter.GetMessageTypeFromCtx(ctx), "error", err)
	default:
		c.logger.WarnContext(ctx, "failed to handle websocket message", "type", wsrouter.GetMessageTypeFromCtx(ctx), "error", err)
	}
}
