// Package memory provides a process-local Credential Store for development
// and tests. Data is lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/sentiscope/sentiment-api/internal/core/domain"
)

// AccountRepository implements ports.AccountRepository in memory.
type AccountRepository struct {
	mu         sync.RWMutex
	byID       map[string]*domain.Account
	byUsername map[string]string
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:       make(map[string]*domain.Account),
		byUsername: make(map[string]string),
	}
}

func (r *AccountRepository) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[account.Username]; exists {
		return nil, domain.ErrUserExists
	}

	stored := clone(account)
	stored.ID = uuid.NewString()
	if stored.Analyses == nil {
		stored.Analyses = []domain.AnalysisRecord{}
	}
	r.byID[stored.ID] = stored
	r.byUsername[stored.Username] = stored.ID
	return clone(stored), nil
}

func (r *AccountRepository) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *AccountRepository) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(a), nil
}

func (r *AccountRepository) AppendAnalysis(_ context.Context, id string, rec domain.AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	a.Analyses = append(a.Analyses, rec)
	return nil
}

// Delete removes an account. Used to simulate out-of-band deletion.
func (r *AccountRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.byID[id]; ok {
		delete(r.byUsername, a.Username)
		delete(r.byID, id)
	}
}

// Ping satisfies the readiness probe; the memory store is always reachable.
func (r *AccountRepository) Ping(context.Context) error {
	return nil
}

func clone(a *domain.Account) *domain.Account {
	c := *a
	c.Analyses = make([]domain.AnalysisRecord, len(a.Analyses))
	copy(c.Analyses, a.Analyses)
	return &c
}
