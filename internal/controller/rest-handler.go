package controller

import (
	"errors"
	"net/http"

	"github.com/sharetube/frequency/internal/service/user"
	"github.com/sharetube/frequency/pkg/rest"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,max=32"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Avatar   string `json:"avatar" validate:"max=16"`
}

func (c controller) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := rest.ReadJSON(w, r, &req); err != nil {
		c.logger.DebugContext(ctx, "failed to read json", "error", err)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	resp, err := c.userService.Register(ctx, &user.RegisterParams{
		Username: req.Username,
		Password: req.Password,
		Avatar:   req.Avatar,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameTaken):
			rest.WriteJSON(w, http.StatusConflict, rest.Envelope{"error": "username taken"})
		case errors.Is(err, user.ErrValidation):
			rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		default:
			c.logger.ErrorContext(ctx, "failed to register", "error", err)
			rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal server error"})
		}
		return
	}

	rest.WriteJSON(w, http.StatusCreated, resp)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c controller) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := rest.ReadJSON(w, r, &req); err != nil {
		c.logger.DebugContext(ctx, "failed to read json", "error", err)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	resp, err := c.userService.Login(ctx, &user.LoginParams{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials), errors.Is(err, user.ErrValidation):
			rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": "invalid credentials"})
		default:
			c.logger.ErrorContext(ctx, "failed to login", "error", err)
			rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal server error"})
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, resp)
}

func (c controller) discovery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp, err := c.roomService.GetDiscovery(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to get discovery", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal server error"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, resp)
}
