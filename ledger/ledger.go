// Package ledger holds the bid records for the auction round currently being
// viewed or edited. The ledger is the only owner of its records; everything
// downstream (aggregation, presentation) consumes read-only snapshots, and the
// winner-confirmation transition in winner.go is the only way a winner flag
// changes.
//
// A ledger belongs to a single session and is not safe for concurrent use.
package ledger

import (
	"github.com/auctionhall/bidround/core"
)

// Ledger is an append-only (per round) collection of bid records, indexed by
// bid id with insertion order preserved.
type Ledger struct {
	records map[string]*core.BidRecord
	order   []string
	version uint64
	subs    []func(version uint64)
}

func New() *Ledger {
	return &Ledger{
		records: make(map[string]*core.BidRecord),
		order:   make([]string, 0),
	}
}

// Version increments on every mutation. Presentation layers compare versions
// to decide when to recompute their views.
func (l *Ledger) Version() uint64 {
	return l.version
}

// Subscribe registers fn to run after every mutation, with the new version.
func (l *Ledger) Subscribe(fn func(version uint64)) {
	l.subs = append(l.subs, fn)
}

func (l *Ledger) bump() {
	l.version++
	for _, fn := range l.subs {
		fn(l.version)
	}
}

func (l *Ledger) Len() int {
	return len(l.records)
}

// AddBid appends a record. The price must be non-negative and the bid id must
// be new; duplicate-bidder suppression is the caller's policy, not the
// ledger's.
func (l *Ledger) AddBid(rec core.BidRecord) error {
	if rec.BidID == "" {
		return &core.ValidationError{Field: "bid_id", Reason: "is required"}
	}
	if rec.Price < 0 {
		return &core.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if _, exists := l.records[rec.BidID]; exists {
		return &core.ValidationError{Field: "bid_id", Reason: "already recorded"}
	}

	stored := rec
	l.records[rec.BidID] = &stored
	l.order = append(l.order, rec.BidID)
	l.bump()
	return nil
}

// Get returns a copy of the record, if present.
func (l *Ledger) Get(bidID string) (core.BidRecord, bool) {
	rec, ok := l.records[bidID]
	if !ok {
		return core.BidRecord{}, false
	}
	return *rec, true
}

// Snapshot returns copies of all records in insertion order.
func (l *Ledger) Snapshot() []core.BidRecord {
	out := make([]core.BidRecord, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.records[id])
	}
	return out
}

// BidsForAsset returns copies of all records matching the round and asset, in
// insertion order. Empty slice if none.
func (l *Ledger) BidsForAsset(roundID, assetTag string) []core.BidRecord {
	out := make([]core.BidRecord, 0)
	for _, id := range l.order {
		rec := l.records[id]
		if rec.RoundID == roundID && rec.AssetTag == assetTag {
			out = append(out, *rec)
		}
	}
	return out
}

// SetWinnerFlag sets or clears the winner flag on one record. Most callers
// want ConfirmWinner, which also clears competing flags.
func (l *Ledger) SetWinnerFlag(bidID string, winner bool) error {
	rec, ok := l.records[bidID]
	if !ok {
		return &core.NotFoundError{BidID: bidID}
	}
	if rec.IsWinner != winner {
		rec.IsWinner = winner
		l.bump()
	}
	return nil
}

// RemoveBid drops a record from the draft list. Removing an absent id is a
// silent no-op; the draft-edit workflow removes by whatever the table row
// still references.
func (l *Ledger) RemoveBid(bidID string) {
	if _, ok := l.records[bidID]; !ok {
		return
	}
	delete(l.records, bidID)
	for i, id := range l.order {
		if id == bidID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	l.bump()
}

// HasBidFor reports whether the participant already has a record for the
// asset in this ledger. Backs the session's duplicate-submission policy.
func (l *Ledger) HasBidFor(citizenID, assetTag string) bool {
	for _, rec := range l.records {
		if rec.BidderCitizenID == citizenID && rec.AssetTag == assetTag {
			return true
		}
	}
	return false
}
