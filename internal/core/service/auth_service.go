package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sentiscope/sentiment-api/internal/core/domain"
	"github.com/sentiscope/sentiment-api/internal/core/ports"
	"github.com/sentiscope/sentiment-api/internal/metrics"
)

// accountClaims is the token payload. The account id travels in "id".
type accountClaims struct {
	jwt.RegisteredClaims
	AccountID string `json:"id"`
}

// AuthService implements registration, login and token verification.
type AuthService struct {
	repo      ports.AccountRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithClock replaces time.Now for token issuance and verification.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) {
		s.now = now
	}
}

// NewAuthService returns an AuthService. A non-positive tokenTTL falls back to
// domain.TokenTTL.
func NewAuthService(repo ports.AccountRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger, opts ...AuthOption) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = domain.TokenTTL
	}
	s := &AuthService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account with an empty history. The existence check is
// only a fast path; the repository's unique constraint decides races.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return domain.ErrMissingCredentials
	}

	_, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		return domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return fmt.Errorf("register: hash password: %w", err)
	}

	account := &domain.Account{
		Username:     username,
		PasswordHash: string(hash),
		Analyses:     []domain.AnalysisRecord{},
		CreatedAt:    s.now().UTC(),
	}
	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
			return domain.ErrUserExists
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return fmt.Errorf("register: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()
	s.log.Info().Str("account_id", created.ID).Str("username", created.Username).Msg("account registered")
	return nil
}

// Login verifies the password and issues a signed token. Unknown usernames and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return "", domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
			return "", domain.ErrInvalidCredentials
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return "", fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(account.ID)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return "", fmt.Errorf("login: sign token: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	return token, nil
}

// Authenticate returns the account id a token was issued for.
// An empty token is ErrUnauthenticated; any token that fails signature,
// algorithm, expiry or shape checks is ErrInvalidToken.
func (s *AuthService) Authenticate(token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthenticated
	}

	claims := &accountClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.AccountID == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.AccountID, nil
}

func (s *AuthService) generateToken(accountID string) (string, error) {
	now := s.now()
	claims := accountClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		AccountID: accountID,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}
