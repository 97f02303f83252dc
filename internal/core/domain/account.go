package domain

import "time"

// TokenTTL is how long an issued bearer token stays valid.
const TokenTTL = time.Hour

// Account models a registered user together with their analysis history.
type Account struct {
	ID           string           `json:"id"`
	Username     string           `json:"username"`
	PasswordHash string           `json:"-"`
	Analyses     []AnalysisRecord `json:"analyses"`
	CreatedAt    time.Time        `json:"created_at"`
}
