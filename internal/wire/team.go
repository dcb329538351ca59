package wire

import (
	"time"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// Contract is a player's contract terms.
type Contract struct {
	Salary         int64 `json:"salary"`
	YearsRemaining int   `json:"years_remaining"`
	Guaranteed     bool  `json:"guaranteed"`
}

// Restriction is a player's trade restriction. A player with no
// restriction object is tradeable.
type Restriction struct {
	Tradeable  bool       `json:"tradeable"`
	Reason     string     `json:"reason,omitempty"`
	UnlockDate *time.Time `json:"unlock_date,omitempty"`
}

// Player is a rostered player.
type Player struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Position    string       `json:"position"`
	Rating      int          `json:"rating,omitempty"`
	TeamID      string       `json:"team_id,omitempty"`
	Contract    Contract     `json:"contract"`
	Restriction *Restriction `json:"restriction,omitempty"`
}

// DraftPick is a pick owned by a team.
type DraftPick struct {
	Year              int    `json:"year"`
	Round             int    `json:"round"`
	OriginalTeamID    string `json:"original_team_id"`
	Protected         bool   `json:"protected"`
	ProtectionDetails string `json:"protection_details,omitempty"`
}

// Exception is a trade exception held by a team.
type Exception struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	TradeID   string    `json:"trade_id,omitempty"`
	Amount    int64     `json:"amount"`
	ExpiresAt time.Time `json:"expires_at"`
	Taxpayer  bool      `json:"taxpayer"`
}

// Team is a team ledger. CapTier may be empty on input, in which case the
// service classifies it from payroll. TotalSalary is ignored on input.
type Team struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Roster      []Player    `json:"roster"`
	TotalSalary int64       `json:"total_salary"`
	CapTier     string      `json:"cap_tier,omitempty"`
	Exceptions  []Exception `json:"exceptions"`
	DraftPicks  []DraftPick `json:"draft_picks"`
	CashSent    int64       `json:"cash_sent"`
	Version     int64       `json:"version,omitempty"`
}

// FromTeam converts a domain team. Nil slices become empty arrays.
func FromTeam(t *domain.Team) Team {
	out := Team{
		ID:          t.ID,
		Name:        t.Name,
		Roster:      make([]Player, len(t.Roster)),
		TotalSalary: t.TotalSalary,
		Exceptions:  FromExceptions(t.Exceptions),
		DraftPicks:  make([]DraftPick, len(t.DraftPicks)),
		CashSent:    t.CashSent,
		Version:     t.Version,
	}
	if t.CapTier.Valid() {
		out.CapTier = t.CapTier.String()
	}
	for i, p := range t.Roster {
		out.Roster[i] = Player{
			ID:       p.ID,
			Name:     p.Name,
			Position: string(p.Position),
			Rating:   p.Rating,
			TeamID:   p.TeamID,
			Contract: Contract{
				Salary:         p.Contract.Salary,
				YearsRemaining: p.Contract.YearsRemaining,
				Guaranteed:     p.Contract.Guaranteed,
			},
			Restriction: &Restriction{
				Tradeable:  p.Restriction.Tradeable,
				Reason:     p.Restriction.Reason,
				UnlockDate: p.Restriction.UnlockDate,
			},
		}
	}
	for i, pick := range t.DraftPicks {
		out.DraftPicks[i] = DraftPick{
			Year:              pick.Year,
			Round:             int(pick.Round),
			OriginalTeamID:    pick.OriginalTeamID,
			Protected:         pick.Protected,
			ProtectionDetails: pick.ProtectionDetails,
		}
	}
	return out
}

// ToDomain converts the team. Players without a team id are assigned to
// this team, and TotalSalary is recomputed from the roster.
func (t Team) ToDomain() (*domain.Team, error) {
	team := &domain.Team{
		ID:       t.ID,
		Name:     t.Name,
		CashSent: t.CashSent,
		Version:  t.Version,
	}
	if t.CapTier != "" {
		tier, err := domain.ParseCapTier(t.CapTier)
		if err != nil {
			return nil, &domain.ValidationError{Message: err.Error()}
		}
		team.CapTier = tier
	}
	if len(t.Roster) > 0 {
		team.Roster = make([]domain.Player, len(t.Roster))
	}
	for i, p := range t.Roster {
		player := domain.Player{
			ID:       p.ID,
			Name:     p.Name,
			Position: domain.Position(p.Position),
			Rating:   p.Rating,
			TeamID:   p.TeamID,
			Contract: domain.Contract{
				Salary:         p.Contract.Salary,
				YearsRemaining: p.Contract.YearsRemaining,
				Guaranteed:     p.Contract.Guaranteed,
			},
			Restriction: domain.TradeRestriction{Tradeable: true},
		}
		if player.TeamID == "" {
			player.TeamID = t.ID
		}
		if r := p.Restriction; r != nil {
			player.Restriction = domain.TradeRestriction{
				Tradeable:  r.Tradeable,
				Reason:     r.Reason,
				UnlockDate: r.UnlockDate,
			}
		}
		team.Roster[i] = player
	}
	if len(t.DraftPicks) > 0 {
		team.DraftPicks = make([]domain.DraftPick, len(t.DraftPicks))
	}
	for i, pick := range t.DraftPicks {
		team.DraftPicks[i] = domain.DraftPick{
			Year:              pick.Year,
			Round:             domain.PickRound(pick.Round),
			OriginalTeamID:    pick.OriginalTeamID,
			Protected:         pick.Protected,
			ProtectionDetails: pick.ProtectionDetails,
		}
	}
	team.Exceptions = ToExceptions(t.Exceptions)
	team.RecomputeSalary()
	return team, nil
}

// FromExceptions converts domain exceptions. A nil slice becomes empty.
func FromExceptions(exceptions []domain.TradeException) []Exception {
	out := make([]Exception, len(exceptions))
	for i, e := range exceptions {
		out[i] = Exception{
			ID:        e.ID,
			TeamID:    e.TeamID,
			TradeID:   e.TradeID,
			Amount:    e.Amount,
			ExpiresAt: e.ExpiresAt,
			Taxpayer:  e.Taxpayer,
		}
	}
	return out
}

// ToExceptions converts wire exceptions. An empty slice becomes nil.
func ToExceptions(exceptions []Exception) []domain.TradeException {
	if len(exceptions) == 0 {
		return nil
	}
	out := make([]domain.TradeException, len(exceptions))
	for i, e := range exceptions {
		out[i] = domain.TradeException{
			ID:        e.ID,
			TeamID:    e.TeamID,
			TradeID:   e.TradeID,
			Amount:    e.Amount,
			ExpiresAt: e.ExpiresAt,
			Taxpayer:  e.Taxpayer,
		}
	}
	return out
}

// League is the CLI's on-disk state: every team in the league and the
// trades executed between them.
type League struct {
	Teams  []Team        `json:"teams"`
	Trades []TradeRecord `json:"trades,omitempty"`
}
