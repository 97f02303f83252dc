package ports

import (
	"context"

	"github.com/sentiscope/sentiment-api/internal/core/domain"
)

// IdempotencyStore remembers analysis results per (account, key) so a
// retried request can be answered without a second append. fingerprint
// identifies the analyzed text; Lookup only hits when it matches the one
// the result was saved with.
type IdempotencyStore interface {
	Lookup(ctx context.Context, accountID, key, fingerprint string) (*domain.AnalysisResult, bool, error)
	Save(ctx context.Context, accountID, key, fingerprint string, result domain.AnalysisResult) error
}
