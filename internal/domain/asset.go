package domain

// AssetKind names the variant of a TradeAsset.
type AssetKind string

const (
	AssetKindPlayer AssetKind = "player"
	AssetKindPick   AssetKind = "pick"
	AssetKindCash   AssetKind = "cash"
)

// TradeAsset is one item a team sends in a proposal. The set of
// implementations is closed: Player, DraftPick, and Cash.
type TradeAsset interface {
	AssetKind() AssetKind
	tradeAsset()
}

// Cash is an amount of money attached to one side of a proposal.
type Cash struct {
	Amount int64
}

func (Player) AssetKind() AssetKind    { return AssetKindPlayer }
func (DraftPick) AssetKind() AssetKind { return AssetKindPick }
func (Cash) AssetKind() AssetKind      { return AssetKindCash }

func (Player) tradeAsset()    {}
func (DraftPick) tradeAsset() {}
func (Cash) tradeAsset()      {}
