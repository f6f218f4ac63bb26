package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/repository"
)

// Claims extends JWT standard claims with the account role.
// The account ID travels in the standard subject claim.
type Claims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	AccountID uuid.UUID
	Role      model.Role
}

// AuthService authenticates credentials and issues and verifies session tokens.
// Tokens are not tracked server-side and stay valid until they expire.
type AuthService struct {
	cfg      *config.Config
	accounts AccountStore
	hasher   PasswordHasher
	log      zerolog.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, accounts AccountStore, hasher PasswordHasher, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:      cfg,
		accounts: accounts,
		hasher:   hasher,
		log:      log.With().Str("component", "auth_service").Logger(),
		now:      time.Now,
	}
}

// TokenTTL is the session validity window.
func (s *AuthService) TokenTTL() time.Duration {
	return s.cfg.JWTExpiry
}

// Authenticate verifies email and password and returns the account with a
// fresh session token. Unknown emails and wrong passwords both yield
// ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.Account, string, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn a comparable amount of time so response latency does not reveal the miss.
			s.hasher.Verify(s.placeholderHash(), password)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup account: %w", err)
	}

	if !s.hasher.Verify(account.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(account)
	if err != nil {
		return nil, "", err
	}
	return account, token, nil
}

// IssueToken signs a session token carrying the account ID and role.
func (s *AuthService) IssueToken(a *model.Account) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   a.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		Role: a.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature and expiry and returns the caller identity.
// Every failure is reported as ErrUnauthorized.
func (s *AuthService) ValidateToken(tokenStr string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		s.log.Debug().Err(err).Msg("Rejected session token")
		return nil, ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrUnauthorized
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil || !claims.Role.Valid() {
		return nil, ErrUnauthorized
	}

	return &Identity{AccountID: id, Role: claims.Role}, nil
}

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to prepare placeholder hash")
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
