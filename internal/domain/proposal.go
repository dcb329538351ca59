package domain

// TradeProposal is a two-team trade offer. Each side lists the assets it
// sends. A proposal is never mutated.
type TradeProposal struct {
	TeamAID  string
	TeamBID  string
	TeamAOut []TradeAsset
	TeamBOut []TradeAsset
}

// HasPlayer reports whether either side sends at least one player.
func (p TradeProposal) HasPlayer() bool {
	for _, side := range [][]TradeAsset{p.TeamAOut, p.TeamBOut} {
		for _, a := range side {
			if _, ok := a.(Player); ok {
				return true
			}
		}
	}
	return false
}
