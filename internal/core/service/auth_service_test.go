package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sentiscope/sentiment-api/internal/core/domain"
)

type stubAccountRepo struct {
	byID     map[string]*domain.Account
	findErr  error
	createFn func(*domain.Account) (*domain.Account, error)
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Analyses = append([]domain.AnalysisRecord(nil), a.Analyses...)
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if r.createFn != nil {
		return r.createFn(account)
	}
	for _, a := range r.byID {
		if a.Username == account.Username {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneAccount(account)
	copy.ID = "id-" + account.Username
	r.byID[copy.ID] = cloneAccount(copy)
	return copy, nil
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, a := range r.byID {
		if a.Username == username {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) AppendAnalysis(_ context.Context, id string, rec domain.AnalysisRecord) error {
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	a.Analyses = append(a.Analyses, rec)
	return nil
}

func newAuthSvc(repo *stubAccountRepo) *AuthService {
	return NewAuthService(repo, "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAuthSvc(repo)

	if err := svc.Register(context.Background(), "alice", "pw1"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	stored, ok := repo.byID["id-alice"]
	if !ok {
		t.Fatalf("expected account to be stored")
	}
	if stored.PasswordHash == "pw1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if len(stored.Analyses) != 0 {
		t.Fatalf("expected empty history, got %d records", len(stored.Analyses))
	}
}

func TestAuthService_Register_SaltsEachHash(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAuthSvc(repo)

	_ = svc.Register(context.Background(), "a", "same")
	_ = svc.Register(context.Background(), "b", "same")

	if repo.byID["id-a"].PasswordHash == repo.byID["id-b"].PasswordHash {
		t.Fatalf("expected distinct digests for identical passwords")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(newStubAccountRepo())

	if err := svc.Register(context.Background(), "", "pass"); err != domain.ErrMissingCredentials {
		t.Fatalf("expected ErrMissingCredentials for empty username, got %v", err)
	}
	if err := svc.Register(context.Background(), "bob", ""); err != domain.ErrMissingCredentials {
		t.Fatalf("expected ErrMissingCredentials for empty password, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthSvc(newStubAccountRepo())

	if err := svc.Register(context.Background(), "bob", "pass"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := svc.Register(context.Background(), "bob", "pass2"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_StoreRaceReportsConflict(t *testing.T) {
	repo := newStubAccountRepo()
	// The pre-check passes but the unique index rejects the insert.
	repo.createFn = func(*domain.Account) (*domain.Account, error) {
		return nil, domain.ErrUserExists
	}
	svc := newAuthSvc(repo)

	if err := svc.Register(context.Background(), "carol", "pass"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	repo := newStubAccountRepo()
	repo.findErr = domain.ErrPersistence
	svc := newAuthSvc(repo)

	err := svc.Register(context.Background(), "dave", "pass")
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newAuthSvc(newStubAccountRepo())

	if err := svc.Register(context.Background(), "carol", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["id"] != "id-carol" {
		t.Fatalf("expected id claim id-carol, got %v", claims["id"])
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("expected exp claim: %v", err)
	}
	if ttl := time.Until(exp.Time); ttl > time.Hour || ttl < 59*time.Minute {
		t.Fatalf("expected ~1h expiry, got %v", ttl)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	svc := newAuthSvc(newStubAccountRepo())
	_ = svc.Register(context.Background(), "dave", "goodpass")

	_, wrongPassword := svc.Login(context.Background(), "dave", "badpass")
	_, unknownUser := svc.Login(context.Background(), "ghost", "badpass")

	if wrongPassword != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPassword)
	}
	if unknownUser != wrongPassword {
		t.Fatalf("unknown user error %v differs from wrong password error %v", unknownUser, wrongPassword)
	}
}

func TestAuthService_Authenticate_RoundTrip(t *testing.T) {
	svc := newAuthSvc(newStubAccountRepo())
	_ = svc.Register(context.Background(), "erin", "pw")

	token, err := svc.Login(context.Background(), "erin", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	id, err := svc.Authenticate(token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if id != "id-erin" {
		t.Fatalf("expected id-erin, got %s", id)
	}
}

func TestAuthService_Authenticate_Expiry(t *testing.T) {
	svc := newAuthSvc(newStubAccountRepo())
	_ = svc.Register(context.Background(), "frank", "pw")

	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	token, err := svc.Login(context.Background(), "frank", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	if _, err := svc.Authenticate(token); err != nil {
		t.Fatalf("expected token to be valid before expiry, got %v", err)
	}

	svc.now = func() time.Time { return issued.Add(time.Hour + time.Second) }
	if _, err := svc.Authenticate(token); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestAuthService_Authenticate_Rejections(t *testing.T) {
	svc := newAuthSvc(newStubAccountRepo())

	if _, err := svc.Authenticate(""); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.Authenticate("not.a.jwt"); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}

	other := NewAuthService(newStubAccountRepo(), "other-secret", time.Hour, zerolog.Nop())
	forged, err := other.generateToken("id-alice")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := svc.Authenticate(forged); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "id-alice"})
	signed, _ := noExp.SignedString([]byte("secret"))
	if _, err := svc.Authenticate(signed); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for token without exp, got %v", err)
	}

	noID := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	signed, _ = noID.SignedString([]byte("secret"))
	if _, err := svc.Authenticate(signed); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for token without id, got %v", err)
	}

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"id": "id-alice", "exp": time.Now().Add(time.Hour).Unix()})
	signed, _ = hs512.SignedString([]byte("secret"))
	if _, err := svc.Authenticate(signed); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for HS512 token, got %v", err)
	}
}
