package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Competition tier thresholds on unique bidder counts. Fixed business values,
// not configurable.
const (
	mediumBidderThreshold   = 10
	highBidderThreshold     = 15
	veryHighBidderThreshold = 20
)

// CompetitionFor classifies an asset's competition tier from its unique
// bidder count.
func CompetitionFor(uniqueBidders int) CompetitionLevel {
	switch {
	case uniqueBidders >= veryHighBidderThreshold:
		return CompetitionVeryHigh
	case uniqueBidders >= highBidderThreshold:
		return CompetitionHigh
	case uniqueBidders >= mediumBidderThreshold:
		return CompetitionMedium
	default:
		return CompetitionLow
	}
}

// AggregateByAsset derives per-asset statistics from a round's bid records.
// Grouping is by exact AssetTag match. Only assets with at least one bid
// produce an entry; merging in zero-bid assets from the catalog is the
// caller's responsibility.
//
// The computation is pure and runs fresh on every call. Bid volumes are at
// most hundreds per round, so recomputing beats caching.
func AggregateByAsset(records []BidRecord) map[string]*AssetAggregate {
	aggregates := make(map[string]*AssetAggregate)
	if len(records) == 0 {
		return aggregates
	}

	sums := make(map[string]decimal.Decimal)
	bidders := make(map[string]map[string]bool)

	for i := range records {
		rec := &records[i]

		agg, exists := aggregates[rec.AssetTag]
		if !exists {
			agg = &AssetAggregate{
				AssetTag:     rec.AssetTag,
				HighestPrice: rec.Price,
				LowestPrice:  rec.Price,
			}
			aggregates[rec.AssetTag] = agg
			sums[rec.AssetTag] = decimal.Zero
			bidders[rec.AssetTag] = make(map[string]bool)
		}

		agg.TotalBids++
		bidders[rec.AssetTag][rec.BidderCitizenID] = true
		sums[rec.AssetTag] = sums[rec.AssetTag].Add(decimal.NewFromInt(rec.Price))

		if rec.Price > agg.HighestPrice {
			agg.HighestPrice = rec.Price
		}
		if rec.Price < agg.LowestPrice {
			agg.LowestPrice = rec.Price
		}
	}

	// Second pass: tie counts need the final highest price
	for i := range records {
		rec := &records[i]
		if agg := aggregates[rec.AssetTag]; rec.Price == agg.HighestPrice {
			agg.HighestPriceBidders++
		}
	}

	for tag, agg := range aggregates {
		agg.UniqueBidders = len(bidders[tag])
		agg.AveragePrice = sums[tag].Div(decimal.NewFromInt(int64(agg.TotalBids)))
		agg.Competition = CompetitionFor(agg.UniqueBidders)
	}

	return aggregates
}

// HighestBiddersForAsset returns every record for the asset whose price equals
// the asset's highest price. Multiple bidders can tie at the top and all of
// them are surfaced, in original insertion order. No secondary tie-break is
// applied; choosing among tied bidders is the auctioneer's call.
func HighestBiddersForAsset(records []BidRecord, assetTag string) []BidRecord {
	var highest int64
	found := false
	for i := range records {
		if records[i].AssetTag != assetTag {
			continue
		}
		if !found || records[i].Price > highest {
			highest = records[i].Price
			found = true
		}
	}
	if !found {
		return []BidRecord{}
	}

	tied := make([]BidRecord, 0, 2)
	for i := range records {
		if records[i].AssetTag == assetTag && records[i].Price == highest {
			tied = append(tied, records[i])
		}
	}
	return tied
}

// RankAssetsByHighestPrice orders aggregates descending by highest price.
// Equal prices fall back to the asset tag so the ranking is deterministic.
func RankAssetsByHighestPrice(aggregates map[string]*AssetAggregate) []*AssetAggregate {
	ranked := make([]*AssetAggregate, 0, len(aggregates))
	for _, agg := range aggregates {
		ranked = append(ranked, agg)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].HighestPrice != ranked[j].HighestPrice {
			return ranked[i].HighestPrice > ranked[j].HighestPrice
		}
		return ranked[i].AssetTag < ranked[j].AssetTag
	})
	return ranked
}

// SummarizeRound computes round-level statistics across all assets.
func SummarizeRound(roundID string, records []BidRecord) RoundSummary {
	summary := RoundSummary{
		RoundID:           roundID,
		TotalBids:         len(records),
		CompetitionCounts: make(map[CompetitionLevel]int),
	}

	participants := make(map[string]bool)
	for i := range records {
		participants[records[i].BidderCitizenID] = true
	}
	summary.UniqueParticipants = len(participants)

	aggregates := AggregateByAsset(records)
	summary.AssetsWithBids = len(aggregates)
	for _, agg := range aggregates {
		summary.CompetitionCounts[agg.Competition]++
	}

	return summary
}
