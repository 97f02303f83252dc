package ports

import (
	"context"

	"github.com/sentiscope/sentiment-api/internal/core/domain"
)

// SentimentClassifier calls the external sentiment model.
type SentimentClassifier interface {
	// Classify returns the scored labels for text, most likely first.
	Classify(ctx context.Context, text string) ([]domain.ScoredLabel, error)
}
