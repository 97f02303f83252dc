package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sentiscope/sentiment-api/internal/core/domain"
	"github.com/sentiscope/sentiment-api/internal/core/ports"
	"github.com/sentiscope/sentiment-api/internal/metrics"
)

// AnalysisService classifies text for an account and keeps its history.
type AnalysisService struct {
	repo       ports.AccountRepository
	classifier ports.SentimentClassifier
	idem       ports.IdempotencyStore
	log        zerolog.Logger
	now        func() time.Time
}

// NewAnalysisService wires the analysis workflow. idem may be nil, in which
// case Idempotency-Key values are ignored.
func NewAnalysisService(
	repo ports.AccountRepository,
	classifier ports.SentimentClassifier,
	idem ports.IdempotencyStore,
	log zerolog.Logger,
) *AnalysisService {
	return &AnalysisService{
		repo:       repo,
		classifier: classifier,
		idem:       idem,
		log:        log,
		now:        time.Now,
	}
}

// Analyze classifies in.Text, appends the result to the caller's history and
// returns it. Blank text is rejected before the classifier is reached.
func (s *AnalysisService) Analyze(ctx context.Context, in ports.AnalyzeInput) (*domain.AnalysisResult, error) {
	// 1. Validate.
	if strings.TrimSpace(in.Text) == "" {
		metrics.AnalysisErrorsTotal.WithLabelValues("validation").Inc()
		return nil, domain.ErrTextRequired
	}

	// 2. Replay a previous result for the same idempotency key and text.
	useIdem := s.idem != nil && in.IdempotencyKey != ""
	fingerprint := ""
	if useIdem {
		fingerprint = textFingerprint(in.Text)
		prev, ok, err := s.idem.Lookup(ctx, in.AccountID, in.IdempotencyKey, fingerprint)
		if err != nil {
			s.log.Warn().Err(err).Str("account_id", in.AccountID).Msg("idempotency lookup failed, analyzing anyway")
		} else if ok {
			// A replay still requires the account to exist.
			if _, err := s.repo.FindByID(ctx, in.AccountID); err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.AnalysisErrorsTotal.WithLabelValues("account_not_found").Inc()
					return nil, domain.ErrUserNotFound
				}
				metrics.AnalysisErrorsTotal.WithLabelValues("store").Inc()
				return nil, fmt.Errorf("analyze: %w", err)
			}
			metrics.IdempotentReplaysTotal.Inc()
			s.log.Debug().Str("account_id", in.AccountID).Str("idempotency_key", in.IdempotencyKey).Msg("idempotent replay")
			return prev, nil
		}
	}

	// 3. Classify the raw text.
	labels, err := s.classifier.Classify(ctx, in.Text)
	if err != nil {
		metrics.AnalysisErrorsTotal.WithLabelValues("upstream").Inc()
		if !errors.Is(err, domain.ErrUpstream) {
			err = fmt.Errorf("%w: %w", domain.ErrUpstream, err)
		}
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if len(labels) == 0 {
		metrics.AnalysisErrorsTotal.WithLabelValues("upstream").Inc()
		return nil, fmt.Errorf("analyze: %w: empty classification", domain.ErrUpstream)
	}

	// 4. Map the top label.
	top := labels[0]
	result := domain.AnalysisResult{
		Sentiment:  domain.SentimentFromLabel(top.Label),
		Confidence: top.Score,
	}

	// 5. Append to history.
	rec := domain.AnalysisRecord{
		Text:       in.Text,
		Sentiment:  result.Sentiment,
		Confidence: result.Confidence,
		AnalyzedAt: s.now().UTC(),
	}
	if err := s.repo.AppendAnalysis(ctx, in.AccountID, rec); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AnalysisErrorsTotal.WithLabelValues("account_not_found").Inc()
			return nil, domain.ErrUserNotFound
		}
		metrics.AnalysisErrorsTotal.WithLabelValues("store").Inc()
		return nil, fmt.Errorf("analyze: %w", err)
	}

	// 6. Remember the result (non-fatal on failure).
	if useIdem {
		if err := s.idem.Save(ctx, in.AccountID, in.IdempotencyKey, fingerprint, result); err != nil {
			s.log.Warn().Err(err).Str("account_id", in.AccountID).Msg("failed to store idempotency result")
		}
	}

	metrics.AnalysesTotal.WithLabelValues(string(result.Sentiment)).Inc()
	s.log.Info().
		Str("account_id", in.AccountID).
		Str("sentiment", string(result.Sentiment)).
		Float64("confidence", result.Confidence).
		Str("raw_label", top.Label).
		Msg("analysis recorded")

	return &result, nil
}

// GetHistory returns every analysis of the account in insertion order.
func (s *AnalysisService) GetHistory(ctx context.Context, accountID string) ([]domain.AnalysisRecord, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("history: %w", err)
	}
	if account.Analyses == nil {
		return []domain.AnalysisRecord{}, nil
	}
	return account.Analyses, nil
}

// textFingerprint identifies the analyzed text inside an idempotency entry.
func textFingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
