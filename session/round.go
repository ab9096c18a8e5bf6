// Package session ties one staff session to one auction round: it loads the
// round's bids and asset catalog from the backend, applies the client-side
// submission policies, drives the winner-confirmation transition, and builds
// the merged views the presentation layer renders.
package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/auctionhall/bidround/core"
	"github.com/auctionhall/bidround/ledger"
)

// Backend is the slice of the auction backend this session needs. Satisfied
// by *backendapi.Client.
type Backend interface {
	ListBidsForRound(ctx context.Context, roundID string) ([]core.BidRecord, error)
	ListAssetsForAuction(ctx context.Context, auctionID string) ([]core.CatalogAsset, error)
	SubmitBid(ctx context.Context, roundID string, draft core.DraftBid) (core.BidRecord, error)
	ConfirmWinner(ctx context.Context, roundID, assetTag, bidID string) error
	FinalizeRoundResults(ctx context.Context, roundID string, results []core.RoundResult) error
}

// AssetStanding is one row of the asset board: the aggregate for an asset
// merged with its catalog entry and confirmed winner, covering assets with
// zero bids.
type AssetStanding struct {
	core.AssetAggregate
	StartingPrice int64
	Winner        *core.BidRecord
}

// Round owns the in-memory ledger copy for one round. Each browser session
// holds its own copy; conflicting edits across sessions are resolved by
// whichever backend call lands last.
type Round struct {
	auctionID string
	roundID   string
	backend   Backend
	ledger    *ledger.Ledger
	log       *zap.Logger

	catalog      map[string]core.CatalogAsset
	catalogOrder []string
}

func NewRound(auctionID, roundID string, backend Backend, log *zap.Logger) *Round {
	if log == nil {
		log = zap.NewNop()
	}
	return &Round{
		auctionID: auctionID,
		roundID:   roundID,
		backend:   backend,
		ledger:    ledger.New(),
		log:       log,
		catalog:   make(map[string]core.CatalogAsset),
	}
}

func (r *Round) RoundID() string { return r.roundID }

// Ledger exposes the round's ledger for subscription and direct reads.
func (r *Round) Ledger() *ledger.Ledger { return r.ledger }

// Load fetches the round's bids and the auction's asset catalog, seeding the
// ledger. Records the backend hands back that fail ledger validation are
// skipped with a warning rather than failing the whole load.
func (r *Round) Load(ctx context.Context) error {
	assets, err := r.backend.ListAssetsForAuction(ctx, r.auctionID)
	if err != nil {
		return err
	}
	r.catalog = make(map[string]core.CatalogAsset, len(assets))
	r.catalogOrder = r.catalogOrder[:0]
	for _, asset := range assets {
		if _, seen := r.catalog[asset.AssetTag]; seen {
			continue
		}
		r.catalog[asset.AssetTag] = asset
		r.catalogOrder = append(r.catalogOrder, asset.AssetTag)
	}

	records, err := r.backend.ListBidsForRound(ctx, r.roundID)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.RoundID == "" {
			rec.RoundID = r.roundID
		}
		if err := r.ledger.AddBid(rec); err != nil {
			r.log.Warn("skipping invalid record from backend",
				zap.String("bid_id", rec.BidID), zap.Error(err))
		}
	}

	r.log.Info("round loaded",
		zap.String("round_id", r.roundID),
		zap.Int("bids", r.ledger.Len()),
		zap.Int("assets", len(r.catalogOrder)))
	return nil
}

// SubmitDraftBid validates a staff-entered bid, enforces the duplicate
// policy, records it with the backend, and appends the confirmed record to
// the ledger. On any rejection the ledger is unchanged.
func (r *Round) SubmitDraftBid(ctx context.Context, draft core.DraftBid) (core.BidRecord, error) {
	if err := r.validateDraft(draft); err != nil {
		return core.BidRecord{}, err
	}
	if r.ledger.HasBidFor(draft.BidderCitizenID, draft.AssetTag) {
		return core.BidRecord{}, &core.DuplicateBidError{
			CitizenID: draft.BidderCitizenID,
			AssetTag:  draft.AssetTag,
		}
	}

	rec, err := r.backend.SubmitBid(ctx, r.roundID, draft)
	if err != nil {
		return core.BidRecord{}, err
	}
	if rec.BidID == "" {
		rec.BidID = uuid.NewString()
	}
	if rec.RoundID == "" {
		rec.RoundID = r.roundID
	}

	if err := r.ledger.AddBid(rec); err != nil {
		return core.BidRecord{}, fmt.Errorf("backend accepted bid but ledger rejected it: %w", err)
	}
	return rec, nil
}

func (r *Round) validateDraft(draft core.DraftBid) error {
	if draft.AssetTag == "" {
		return &core.ValidationError{Field: "asset_tag", Reason: "is required"}
	}
	if draft.BidderName == "" {
		return &core.ValidationError{Field: "bidder_name", Reason: "is required"}
	}
	if draft.BidderCitizenID == "" {
		return &core.ValidationError{Field: "citizen_id", Reason: "is required"}
	}
	if draft.Price < 0 {
		return &core.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if asset, known := r.catalog[draft.AssetTag]; known && draft.Price < asset.StartingPrice {
		return &core.ValidationError{
			Field: "price",
			Reason: fmt.Sprintf("is below the starting price %s for asset %q",
				core.FormatPrice(asset.StartingPrice), draft.AssetTag),
		}
	}
	return nil
}

// ConfirmWinner applies the single-winner transition locally, then notifies
// the backend. The local transition stands even when the backend call fails;
// the error is returned so the UI can surface it, and the user retries or
// refreshes.
func (r *Round) ConfirmWinner(ctx context.Context, assetTag, bidID string) error {
	if err := r.ledger.ConfirmWinner(r.roundID, assetTag, bidID); err != nil {
		return err
	}

	if err := r.backend.ConfirmWinner(ctx, r.roundID, assetTag, bidID); err != nil {
		r.log.Warn("winner confirmed locally but backend notification failed",
			zap.String("asset_tag", assetTag),
			zap.String("bid_id", bidID),
			zap.Error(err))
		return err
	}
	return nil
}

// RemoveDraftBid drops a bid from the draft list; absent ids are a no-op.
func (r *Round) RemoveDraftBid(bidID string) {
	r.ledger.RemoveBid(bidID)
}

// Finalize submits the round's full result list. Every recorded bid is
// included; confirmed winners carry their flag.
func (r *Round) Finalize(ctx context.Context) error {
	snapshot := r.ledger.Snapshot()
	results := make([]core.RoundResult, 0, len(snapshot))
	for _, rec := range snapshot {
		results = append(results, core.RoundResult{
			CitizenID:  rec.BidderCitizenID,
			BidderName: rec.BidderName,
			AssetTag:   rec.AssetTag,
			Price:      rec.Price,
			IsWinner:   rec.IsWinner,
		})
	}
	return r.backend.FinalizeRoundResults(ctx, r.roundID, results)
}

// AssetBoard merges per-asset aggregates with the catalog so every asset
// appears, including those with zero bids. Assets with bids come first,
// ranked by highest price; zero-bid assets follow in catalog order.
func (r *Round) AssetBoard() []AssetStanding {
	snapshot := r.ledger.Snapshot()
	aggregates := core.AggregateByAsset(snapshot)

	board := make([]AssetStanding, 0, len(aggregates)+len(r.catalogOrder))
	for _, agg := range core.RankAssetsByHighestPrice(aggregates) {
		standing := AssetStanding{AssetAggregate: *agg}
		if asset, known := r.catalog[agg.AssetTag]; known {
			standing.StartingPrice = asset.StartingPrice
		}
		if winner, ok := r.ledger.WinnerForAsset(r.roundID, agg.AssetTag); ok {
			standing.Winner = &winner
		}
		board = append(board, standing)
	}

	for _, tag := range r.catalogOrder {
		if _, hasBids := aggregates[tag]; hasBids {
			continue
		}
		board = append(board, AssetStanding{
			AssetAggregate: core.AssetAggregate{AssetTag: tag},
			StartingPrice:  r.catalog[tag].StartingPrice,
		})
	}
	return board
}

// HighestBidders returns every bid tied at the asset's highest price, in
// insertion order.
func (r *Round) HighestBidders(assetTag string) []core.BidRecord {
	return core.HighestBiddersForAsset(r.ledger.Snapshot(), assetTag)
}

// Summary computes round-level statistics from the current ledger.
func (r *Round) Summary() core.RoundSummary {
	return core.SummarizeRound(r.roundID, r.ledger.Snapshot())
}
