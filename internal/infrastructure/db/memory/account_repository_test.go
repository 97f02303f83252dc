package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/sentiscope/sentiment-api/internal/core/domain"
)

func TestAccountRepository_CreateAndFind(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.Account{Username: "alice", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}

	byName, err := repo.FindByUsername(ctx, "alice")
	if err != nil || byName.ID != created.ID {
		t.Fatalf("FindByUsername = %+v, %v", byName, err)
	}
	byID, err := repo.FindByID(ctx, created.ID)
	if err != nil || byID.Username != "alice" {
		t.Fatalf("FindByID = %+v, %v", byID, err)
	}
	if byID.Analyses == nil {
		t.Fatalf("expected empty non-nil history")
	}
}

func TestAccountRepository_UsernameIsCaseSensitiveAndUnique(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, &domain.Account{Username: "alice"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := repo.Create(ctx, &domain.Account{Username: "alice"}); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if _, err := repo.Create(ctx, &domain.Account{Username: "Alice"}); err != nil {
		t.Fatalf("expected distinct account for different case, got %v", err)
	}
}

func TestAccountRepository_ConcurrentDuplicateRegistration(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, &domain.Account{Username: "race"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else if err != domain.ErrUserExists {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("expected exactly one successful create, got %d", ok)
	}
}

func TestAccountRepository_AppendAnalysis(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()
	a, _ := repo.Create(ctx, &domain.Account{Username: "bob"})

	for _, text := range []string{"one", "two", "three"} {
		if err := repo.AppendAnalysis(ctx, a.ID, domain.AnalysisRecord{Text: text}); err != nil {
			t.Fatalf("AppendAnalysis returned error: %v", err)
		}
	}

	got, _ := repo.FindByID(ctx, a.ID)
	if len(got.Analyses) != 3 || got.Analyses[0].Text != "one" || got.Analyses[2].Text != "three" {
		t.Fatalf("unexpected history: %+v", got.Analyses)
	}

	// Returned accounts are copies.
	got.Analyses[0].Text = "mutated"
	again, _ := repo.FindByID(ctx, a.ID)
	if again.Analyses[0].Text != "one" {
		t.Fatalf("stored history was mutated through a returned copy")
	}
}

func TestAccountRepository_Delete(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()
	a, _ := repo.Create(ctx, &domain.Account{Username: "carol"})

	repo.Delete(a.ID)

	if _, err := repo.FindByID(ctx, a.ID); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := repo.AppendAnalysis(ctx, a.ID, domain.AnalysisRecord{Text: "x"}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound on append, got %v", err)
	}
	if _, err := repo.Create(ctx, &domain.Account{Username: "carol"}); err != nil {
		t.Fatalf("expected username to be reusable after delete, got %v", err)
	}
}
