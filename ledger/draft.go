package ledger

import (
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/auctionhall/bidround/core"
)

// Draft snapshots let the staff's draft list survive a page reload: the
// ledger is serialized to compact CBOR and restored on the next visit,
// before the round is finalized against the backend.

type draftSnapshot struct {
	SavedAt time.Time        `cbor:"saved_at"`
	Records []core.BidRecord `cbor:"records"`
}

// SaveDraft writes the current ledger contents as a CBOR snapshot.
func (l *Ledger) SaveDraft(w io.Writer) error {
	snap := draftSnapshot{
		SavedAt: time.Now().UTC(),
		Records: l.Snapshot(),
	}
	if err := cbor.NewEncoder(w).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode draft snapshot: %w", err)
	}
	return nil
}

// LoadDraft replaces the ledger contents with a previously saved snapshot.
// Subscribers see a single version bump regardless of record count. On decode
// failure the ledger is left untouched.
func (l *Ledger) LoadDraft(r io.Reader) error {
	var snap draftSnapshot
	if err := cbor.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("failed to decode draft snapshot: %w", err)
	}

	records := make(map[string]*core.BidRecord, len(snap.Records))
	order := make([]string, 0, len(snap.Records))
	for i := range snap.Records {
		rec := snap.Records[i]
		if rec.BidID == "" || rec.Price < 0 {
			return fmt.Errorf("draft snapshot contains invalid record at index %d", i)
		}
		if _, exists := records[rec.BidID]; exists {
			return fmt.Errorf("draft snapshot contains duplicate bid id %s", rec.BidID)
		}
		records[rec.BidID] = &rec
		order = append(order, rec.BidID)
	}

	l.records = records
	l.order = order
	l.bump()
	return nil
}
