package application

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/JeremyNakano12/nakanostay-backend/internal/auth"
	"github.com/JeremyNakano12/nakanostay-backend/internal/config"
	"github.com/JeremyNakano12/nakanostay-backend/internal/domain"
)

// LoginRequest holds admin credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPairDTO is the response representation of an issued token pair.
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthService authenticates the configured admin account and issues tokens.
type AuthService struct {
	admin      config.AdminConfig
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(admin config.AdminConfig, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{admin: admin, jwtManager: jwtManager, logger: logger}
}

// Login verifies the admin credentials and issues a token pair. Wrong email
// and wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenPairDTO, error) {
	if s.admin.Email == "" || s.admin.PasswordHash == "" {
		s.logger.Warn("admin login attempted but no admin account is configured")
		return nil, domain.NewUnauthorizedError("invalid credentials")
	}

	if req.Email != s.admin.Email {
		return nil, domain.NewUnauthorizedError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.NewUnauthorizedError("invalid credentials")
	}

	pair, err := s.jwtManager.GeneratePair(req.Email, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin logged in", zap.String("email", req.Email))
	return toTokenPairDTO(pair), nil
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPairDTO, error) {
	claims, err := s.jwtManager.Verify(refreshToken)
	if err != nil {
		return nil, err
	}

	pair, err := s.jwtManager.GeneratePair(claims.Subject, claims.Role)
	if err != nil {
		return nil, err
	}

	return toTokenPairDTO(pair), nil
}

func toTokenPairDTO(pair auth.TokenPair) *TokenPairDTO {
	return &TokenPairDTO{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}
}
