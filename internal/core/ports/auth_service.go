package ports

import "context"

type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	Authenticator
}

// Authenticator resolves a bearer token to the account id it was issued for.
type Authenticator interface {
	Authenticate(token string) (string, error)
}
