// Package wire defines the JSON shapes shared by the HTTP API, the CLI's
// league files, and the SQLite trade log.
package wire

import (
	"fmt"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// Asset is a tagged trade asset:
//
//	{"type":"player","player_id":"P001"}
//	{"type":"pick","year":2026,"round":1,"original_team_id":"LAL"}
//	{"type":"cash","amount":1000000}
type Asset struct {
	Type           domain.AssetKind `json:"type"`
	PlayerID       string           `json:"player_id,omitempty"`
	Year           int              `json:"year,omitempty"`
	Round          int              `json:"round,omitempty"`
	OriginalTeamID string           `json:"original_team_id,omitempty"`
	Amount         int64            `json:"amount,omitempty"`
}

// FromAsset converts a domain asset to its tagged form. Players are
// referenced by id only.
func FromAsset(a domain.TradeAsset) Asset {
	switch v := a.(type) {
	case domain.Player:
		return Asset{Type: domain.AssetKindPlayer, PlayerID: v.ID}
	case domain.DraftPick:
		return Asset{
			Type:           domain.AssetKindPick,
			Year:           v.Year,
			Round:          int(v.Round),
			OriginalTeamID: v.OriginalTeamID,
		}
	case domain.Cash:
		return Asset{Type: domain.AssetKindCash, Amount: v.Amount}
	}
	panic(fmt.Sprintf("wire: unknown trade asset %T", a))
}

// ToDomain converts the tagged form back to a domain asset. It returns a
// *domain.ValidationError when required fields for the tag are missing.
func (a Asset) ToDomain() (domain.TradeAsset, error) {
	switch a.Type {
	case domain.AssetKindPlayer:
		if a.PlayerID == "" {
			return nil, &domain.ValidationError{Message: "player asset requires player_id"}
		}
		return domain.Player{ID: a.PlayerID}, nil
	case domain.AssetKindPick:
		if a.OriginalTeamID == "" {
			return nil, &domain.ValidationError{Message: "pick asset requires original_team_id"}
		}
		round := domain.PickRound(a.Round)
		if round != domain.RoundFirst && round != domain.RoundSecond {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("pick round must be 1 or 2, got %d", a.Round)}
		}
		if a.Year <= 0 {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("pick year must be > 0, got %d", a.Year)}
		}
		return domain.DraftPick{Year: a.Year, Round: round, OriginalTeamID: a.OriginalTeamID}, nil
	case domain.AssetKindCash:
		return domain.Cash{Amount: a.Amount}, nil
	}
	return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown asset type %q", a.Type)}
}

// Proposal is the JSON body of a trade proposal.
type Proposal struct {
	TeamAID  string  `json:"team_a_id"`
	TeamBID  string  `json:"team_b_id"`
	TeamAOut []Asset `json:"team_a_out"`
	TeamBOut []Asset `json:"team_b_out"`
}

// FromProposal converts a domain proposal.
func FromProposal(p domain.TradeProposal) Proposal {
	return Proposal{
		TeamAID:  p.TeamAID,
		TeamBID:  p.TeamBID,
		TeamAOut: fromAssets(p.TeamAOut),
		TeamBOut: fromAssets(p.TeamBOut),
	}
}

// ToDomain converts the proposal, failing on the first malformed asset.
func (p Proposal) ToDomain() (domain.TradeProposal, error) {
	if p.TeamAID == "" || p.TeamBID == "" {
		return domain.TradeProposal{}, &domain.ValidationError{Message: "team_a_id and team_b_id are required"}
	}
	aOut, err := toAssets(p.TeamAOut)
	if err != nil {
		return domain.TradeProposal{}, err
	}
	bOut, err := toAssets(p.TeamBOut)
	if err != nil {
		return domain.TradeProposal{}, err
	}
	return domain.TradeProposal{
		TeamAID:  p.TeamAID,
		TeamBID:  p.TeamBID,
		TeamAOut: aOut,
		TeamBOut: bOut,
	}, nil
}

func fromAssets(assets []domain.TradeAsset) []Asset {
	out := make([]Asset, len(assets))
	for i, a := range assets {
		out[i] = FromAsset(a)
	}
	return out
}

func toAssets(assets []Asset) ([]domain.TradeAsset, error) {
	out := make([]domain.TradeAsset, len(assets))
	for i, a := range assets {
		v, err := a.ToDomain()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
