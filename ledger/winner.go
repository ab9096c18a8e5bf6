package ledger

import (
	"github.com/auctionhall/bidround/core"
)

// ConfirmWinner moves the winner flag for one asset to the given bid.
//
// Invariant: at most one record per (round, asset) carries IsWinner at any
// time. The transition clears every competing flag before setting the target,
// so it holds even when called redundantly or when the flag is moving from
// one bidder to another. Re-confirming the current winner is an idempotent
// no-op: it succeeds without bumping the version.
//
// Round status gating (only an active round may be confirmed) is the caller's
// responsibility; the ledger is agnostic to round state.
func (l *Ledger) ConfirmWinner(roundID, assetTag, bidID string) error {
	target, ok := l.records[bidID]
	if !ok || target.RoundID != roundID || target.AssetTag != assetTag {
		return &core.NotFoundError{BidID: bidID}
	}

	changed := false
	for _, id := range l.order {
		rec := l.records[id]
		if rec.RoundID != roundID || rec.AssetTag != assetTag {
			continue
		}
		if rec.IsWinner && rec.BidID != bidID {
			rec.IsWinner = false
			changed = true
		}
	}
	if !target.IsWinner {
		target.IsWinner = true
		changed = true
	}

	if changed {
		l.bump()
	}
	return nil
}

// WinnerForAsset returns the confirmed winner for the asset, if one exists.
func (l *Ledger) WinnerForAsset(roundID, assetTag string) (core.BidRecord, bool) {
	for _, id := range l.order {
		rec := l.records[id]
		if rec.RoundID == roundID && rec.AssetTag == assetTag && rec.IsWinner {
			return *rec, true
		}
	}
	return core.BidRecord{}, false
}
