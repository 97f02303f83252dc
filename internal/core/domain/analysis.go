package domain

import "time"

// Sentiment is the fixed three-class vocabulary exposed to callers.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// Raw labels emitted by cardiffnlp/twitter-roberta-base-sentiment.
const (
	LabelNegative = "LABEL_0"
	LabelNeutral  = "LABEL_1"
	LabelPositive = "LABEL_2"
)

// SentimentFromLabel maps a raw classifier label onto the domain vocabulary.
// The mapping is total: every label that is neither neutral nor negative,
// including ones the model never documented, counts as positive.
func SentimentFromLabel(label string) Sentiment {
	switch label {
	case LabelNeutral:
		return SentimentNeutral
	case LabelNegative:
		return SentimentNegative
	default:
		return SentimentPositive
	}
}

// ScoredLabel is one (label, score) pair returned by the classifier.
type ScoredLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// AnalysisRecord is one persisted result of an /analyze call. Records are
// immutable once appended to an account.
type AnalysisRecord struct {
	Text       string    `json:"text"`
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// AnalysisResult is what the caller gets back from a single analysis.
type AnalysisResult struct {
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
}
