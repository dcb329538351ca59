package domain

import "time"

// TradeRecord is the immutable log entry written when a trade executes.
type TradeRecord struct {
	TradeID    string
	Proposal   TradeProposal
	Approval   Approval
	Exceptions []TradeException
	ExecutedAt time.Time
}
