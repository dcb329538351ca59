package domain

import "time"

// TradeException is a traded player exception (TPE): salary credit a team
// banks when it sends out more salary than it takes back. Amount never
// changes after creation.
type TradeException struct {
	ID        string
	TeamID    string
	TradeID   string
	Amount    int64
	ExpiresAt time.Time
	Taxpayer  bool
}

// Expired reports whether the exception is no longer usable at now.
func (e TradeException) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
