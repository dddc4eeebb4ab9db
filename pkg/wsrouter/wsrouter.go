package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
)

var (
	ErrInvalidMessage = errors.New("invalid message")
	ErrUnknownType    = errors.New("unknown message type")
	ErrInvalidPayload = errors.New("invalid payload")
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc[T any] func(ctx context.Context, conn *websocket.Conn, payload T) error

type Middleware func(next HandlerFunc[any]) HandlerFunc[any]

// ErrorHandler receives every error of a message that could not be handled.
// The connection stays open.
type ErrorHandler func(ctx context.Context, conn *websocket.Conn, err error)

type route struct {
	decode  func(json.RawMessage) (any, error)
	handler HandlerFunc[any]
}

type WSRouter struct {
	routes      map[string]route
	middlewares []Middleware
	onError     ErrorHandler
}

func New() *WSRouter {
	return &WSRouter{
		routes:  make(map[string]route),
		onError: func(context.Context, *websocket.Conn, error) {},
	}
}

func (r *WSRouter) Use(middlewares ...Middleware) {
	r.middlewares = append(r.middlewares, middlewares...)
}

func (r *WSRouter) OnError(handler ErrorHandler) {
	r.onError = handler
}

// Handle registers handler for messageType. The payload is decoded into T
// before any middleware runs.
func Handle[T any](r *WSRouter, messageType string, handler HandlerFunc[T]) {
	r.routes[messageType] = route{
		decode: func(raw json.RawMessage) (any, error) {
			var payload T
			if len(raw) == 0 || string(raw) == "null" {
				return payload, nil
			}

			if err := json.Unmarshal(raw, &payload); err != nil {
				return nil, err
			}

			return payload, nil
		},
		handler: func(ctx context.Context, conn *websocket.Conn, payload any) error {
			return handler(ctx, conn, payload.(T))
		},
	}
}

// ServeConn reads messages from conn until reading fails and dispatches each
// one to its handler in order.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		r.dispatch(ctx, conn, data)
	}
}

func (r *WSRouter) dispatch(ctx context.Context, conn *websocket.Conn, data []byte) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		r.onError(ctx, conn, fmt.Errorf("%w: %w", ErrInvalidMessage, err))
		return
	}

	ctx = context.WithValue(ctx, messageTypeKey, msg.Type)

	rt, ok := r.routes[msg.Type]
	if !ok {
		r.onError(ctx, conn, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type))
		return
	}

	payload, err := rt.decode(msg.Payload)
	if err != nil {
		r.onError(ctx, conn, fmt.Errorf("%w: %w", ErrInvalidPayload, err))
		return
	}

	handler := rt.handler
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}

	if err := r.call(ctx, conn, handler, payload); err != nil {
		r.onError(ctx, conn, err)
	}
}

func (r *WSRouter) call(ctx context.Context, conn *websocket.Conn, handler HandlerFunc[any], payload any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panicked: %v", rec)
		}
	}()

	return handler(ctx, conn, payload)
}
