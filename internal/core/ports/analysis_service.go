package ports

import (
	"context"

	"github.com/sentiscope/sentiment-api/internal/core/domain"
)

// AnalyzeInput is the DTO passed from the transport layer to AnalysisService.
type AnalyzeInput struct {
	AccountID      string
	Text           string
	IdempotencyKey string // optional
}

// AnalysisService runs sentiment analyses and serves history.
type AnalysisService interface {
	Analyze(ctx context.Context, in AnalyzeInput) (*domain.AnalysisResult, error)
	GetHistory(ctx context.Context, accountID string) ([]domain.AnalysisRecord, error)
}
