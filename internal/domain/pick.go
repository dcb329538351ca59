package domain

import "fmt"

// PickRound is the draft round of a pick.
type PickRound int

const (
	RoundFirst  PickRound = 1
	RoundSecond PickRound = 2
)

// DraftPick is a future draft selection. OriginalTeamID never changes as
// the pick moves between teams.
type DraftPick struct {
	Year              int
	Round             PickRound
	OriginalTeamID    string
	Protected         bool
	ProtectionDetails string // e.g. "top 5 protected"
}

// PickKey identifies a draft pick independent of its current owner.
type PickKey struct {
	Year           int
	Round          PickRound
	OriginalTeamID string
}

// Key returns the pick's identity.
func (p DraftPick) Key() PickKey {
	return PickKey{Year: p.Year, Round: p.Round, OriginalTeamID: p.OriginalTeamID}
}

func (k PickKey) String() string {
	return fmt.Sprintf("%d-R%d-%s", k.Year, k.Round, k.OriginalTeamID)
}
