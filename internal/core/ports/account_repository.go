package ports

import (
	"context"

	"github.com/sentiscope/sentiment-api/internal/core/domain"
)

// AccountRepository is the Credential Store: accounts and their histories.
type AccountRepository interface {
	// Create inserts a new account. The store's unique constraint on username
	// is authoritative; a violation is reported as domain.ErrUserExists.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	// AppendAnalysis atomically appends rec to the account's history.
	// Returns domain.ErrUserNotFound when no account has the given id.
	AppendAnalysis(ctx context.Context, id string, rec domain.AnalysisRecord) error
}
