package handler

// messageResponse is the envelope for informational and error messages.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// --- Analysis ---

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// historyItemResponse is one entry of GET /history. analyzed_at stays internal.
type historyItemResponse struct {
	Text       string  `json:"text"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}
