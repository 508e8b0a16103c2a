package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken = errors.New("token is invalid or expired")
	ErrTokenRevoked = errors.New("refresh token has already been used")
)

// Claims defines the information stored in a JWT.
type Claims struct {
	UserID    uint64 `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is an access/refresh token pair.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenService issues and verifies HS256 JWTs. Refresh tokens carry a JTI
// whose state lives in the refresh token repository, so rotation survives
// anything the token itself claims.
type TokenService struct {
	tokenRepo  repository.RefreshTokenRepository
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a new TokenService.
func NewTokenService(tokenRepo repository.RefreshTokenRepository, secretKey string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		tokenRepo:  tokenRepo,
		secretKey:  []byte(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair issues a new access/refresh pair for the user and records the
// refresh token as active.
func (s *TokenService) IssuePair(userID uint64) (*TokenPair, error) {
	now := time.Now()

	access, err := s.sign(userID, constants.TokenTypeAccess, uuid.NewString(), now, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	jti := uuid.NewString()
	expiresAt := now.Add(s.refreshTTL)
	refresh, err := s.sign(userID, constants.TokenTypeRefresh, jti, now, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	record := &models.RefreshToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := s.tokenRepo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// VerifyAccess validates an access token and returns the user ID it was
// issued for.
func (s *TokenService) VerifyAccess(tokenString string) (uint64, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return 0, ErrInvalidToken
	}
	if claims.TokenType != constants.TokenTypeAccess {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// Rotate redeems a refresh token for a new pair. The presented token is
// consumed first; a token that is malformed, expired, unknown, or already
// consumed is rejected.
func (s *TokenService) Rotate(tokenString string) (*TokenPair, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != constants.TokenTypeRefresh || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	record, err := s.tokenRepo.Consume(claims.ID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTokenConsumed):
			return nil, ErrTokenRevoked
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrInvalidToken
		default:
			return nil, fmt.Errorf("failed to consume refresh token: %w", err)
		}
	}

	return s.IssuePair(record.UserID)
}

func (s *TokenService) sign(userID uint64, tokenType, jti string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *TokenService) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
