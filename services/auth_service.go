package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Dosada05/swiss-tournament/utils"
)

// RoleOrganizer is the only role allowed to change tournament state.
const RoleOrganizer = "organizer"

type TokenResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthService interface {
	IssueToken(ctx context.Context, password string) (*TokenResult, error)
}

type authService struct {
	passwordHash string
	jwtSecret    []byte
	tokenTTL     time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

// NewAuthService: пустой passwordHash отключает выдачу токенов.
func NewAuthService(passwordHash string, jwtSecret []byte, tokenTTL time.Duration, logger *slog.Logger) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &authService{
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
		now:          time.Now,
		logger:       logger,
	}
}

func (s *authService) IssueToken(ctx context.Context, password string) (*TokenResult, error) {
	if s.passwordHash == "" {
		return nil, ErrAuthDisabled
	}
	if !utils.CheckPasswordHash(password, s.passwordHash) {
		s.logger.Warn("organizer login failed")
		return nil, ErrAuthenticationFailed
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":  RoleOrganizer,
		"role": RoleOrganizer,
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &TokenResult{Token: signed, ExpiresAt: expiresAt}, nil
}
