package core

import "github.com/shopspring/decimal"

// BidRecord represents a single bid placed by one participant on one asset
// within one auction round. Prices are stored in the smallest currency unit
// and are compared as exact integers, never as floats.
type BidRecord struct {
	BidID           string `json:"bid_id"`
	RoundID         string `json:"round_id"`
	AssetTag        string `json:"asset_tag"`
	BidderName      string `json:"bidder_name"`
	BidderCitizenID string `json:"citizen_id"`
	Location        string `json:"location,omitempty"`
	Price           int64  `json:"price"`
	IsWinner        bool   `json:"is_winner"`
}

// DraftBid is the staff-entered input for a new bid, before the backend has
// assigned it an id.
type DraftBid struct {
	AssetTag        string `json:"asset_tag"`
	BidderName      string `json:"bidder_name"`
	BidderCitizenID string `json:"citizen_id"`
	Location        string `json:"location,omitempty"`
	Price           int64  `json:"price"`
}

// CatalogAsset is one entry of the auction's asset catalog, supplied by the
// backend. The catalog drives which assets appear in displays even when no
// bid has been recorded for them yet.
type CatalogAsset struct {
	AssetTag      string `json:"asset_tag"`
	StartingPrice int64  `json:"starting_price"`
}

// CompetitionLevel classifies how contested an asset is, derived from the
// number of unique bidders.
type CompetitionLevel int

const (
	CompetitionLow CompetitionLevel = iota
	CompetitionMedium
	CompetitionHigh
	CompetitionVeryHigh
)

func (c CompetitionLevel) String() string {
	switch c {
	case CompetitionVeryHigh:
		return "very_high"
	case CompetitionHigh:
		return "high"
	case CompetitionMedium:
		return "medium"
	default:
		return "low"
	}
}

// AssetAggregate contains the derived statistics for one asset within one
// round. It is recomputed on demand from the current bid set and never stored.
//
// HighestPrice and LowestPrice are only meaningful when TotalBids > 0.
type AssetAggregate struct {
	AssetTag            string          `json:"asset_tag"`
	TotalBids           int             `json:"total_bids"`
	UniqueBidders       int             `json:"unique_bidders"`
	HighestPrice        int64           `json:"highest_price"`
	LowestPrice         int64           `json:"lowest_price"`
	HighestPriceBidders int             `json:"highest_price_bidders"`
	AveragePrice        decimal.Decimal  `json:"average_price"`
	Competition         CompetitionLevel `json:"competition"`
}

// RoundResult is one line of the bulk result list submitted to the backend
// when staff complete a round.
type RoundResult struct {
	CitizenID  string `json:"citizen_id"`
	BidderName string `json:"bidder_name"`
	AssetTag   string `json:"asset_tag"`
	Price      int64  `json:"price"`
	IsWinner   bool   `json:"is_winner"`
}

// RoundSummary contains round-level statistics across all assets.
type RoundSummary struct {
	RoundID            string                   `json:"round_id"`
	TotalBids          int                      `json:"total_bids"`
	UniqueParticipants int                      `json:"unique_participants"`
	AssetsWithBids     int                      `json:"assets_with_bids"`
	CompetitionCounts  map[CompetitionLevel]int `json:"competition_counts"`
}
