package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sharetube/frequency/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrValidation         = errors.New("validation error")
)

type iUserRepo interface {
	CreateUser(context.Context, *user.CreateUserParams) (user.User, error)
	GetUser(ctx context.Context, username string) (user.User, error)
}

type Config struct {
	Secret   string
	TokenTTL time.Duration
	Clock    func() time.Time
}

type service struct {
	userRepo iUserRepo
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewService(userRepo iUserRepo, cfg *Config) *service {
	s := service{
		userRepo: userRepo,
		secret:   []byte(cfg.Secret),
		tokenTTL: cfg.TokenTTL,
		now:      cfg.Clock,
	}

	if s.now == nil {
		s.now = time.Now
	}

	if s.tokenTTL <= 0 {
		s.tokenTTL = 30 * 24 * time.Hour
	}

	return &s
}

var UsernameRule = []validation.Rule{
	validation.Required,
	validation.RuneLength(1, 32),
}

// bcrypt ignores bytes past 72
var PasswordRule = []validation.Rule{
	validation.Required,
	validation.Length(6, 72),
}

var AvatarRule = []validation.Rule{
	validation.RuneLength(0, 16),
}

type RegisterParams struct {
	Username string
	Password string
	Avatar   string
}

type AuthResponse struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Token    string `json:"token"`
}

func (s service) Register(ctx context.Context, params *RegisterParams) (AuthResponse, error) {
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.Username, UsernameRule...),
		validation.Field(&params.Password, PasswordRule...),
		validation.Field(&params.Avatar, AvatarRule...),
	); err != nil {
		return AuthResponse{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.userRepo.CreateUser(ctx, &user.CreateUserParams{
		Username:     params.Username,
		PasswordHash: string(hash),
		Avatar:       params.Avatar,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserAlreadyExists) {
			return AuthResponse{}, ErrUsernameTaken
		}
		return AuthResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "username", created.Username)

	return s.authResponse(created)
}

type LoginParams struct {
	Username string
	Password string
}

func (s service) Login(ctx context.Context, params *LoginParams) (AuthResponse, error) {
	if err := validation.ValidateStructWithContext(ctx, params,
		validation.Field(&params.Username, validation.Required),
		validation.Field(&params.Password, validation.Required),
	); err != nil {
		return AuthResponse{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	found, err := s.userRepo.GetUser(ctx, params.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return AuthResponse{}, ErrInvalidCredentials
		}
		return AuthResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(params.Password)); err != nil {
		return AuthResponse{}, ErrInvalidCredentials
	}

	return s.authResponse(found)
}

func (s service) authResponse(u user.User) (AuthResponse, error) {
	token, err := s.generateJWT(u.Username)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return AuthResponse{
		Username: u.Username,
		Avatar:   u.Avatar,
		Token:    token,
	}, nil
}

// ParseToken returns the username a token was issued to.
func (s service) ParseToken(token string) (string, error) {
	claims, err := s.parseJWT(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return claims.Username, nil
}
