// Package backendapi talks to the auction backend: the REST service that owns
// persistence, authentication, and round lifecycle. This package only knows
// the wire shapes and a thin HTTP client; everything stateful lives in the
// ledger and session packages.
package backendapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/auctionhall/bidround/core"
)

// WirePrice tolerates the backend's two price encodings: a JSON number or a
// quoted decimal string. Either way the value is normalized once, here, into
// the smallest currency unit.
type WirePrice int64

func (p *WirePrice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("missing price")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("malformed price string: %w", err)
		}
		v, err := core.ParsePrice(s)
		if err != nil {
			return err
		}
		*p = WirePrice(v)
		return nil
	}
	v, err := core.ParsePrice(string(data))
	if err != nil {
		return err
	}
	*p = WirePrice(v)
	return nil
}

func (p WirePrice) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(p))
}

// WireBid is the backend's representation of one bid record.
type WireBid struct {
	BidID           string    `json:"bid_id"`
	RoundID         string    `json:"round_id"`
	AssetTag        string    `json:"asset_tag"`
	BidderName      string    `json:"bidder_name"`
	BidderCitizenID string    `json:"citizen_id"`
	Location        string    `json:"location,omitempty"`
	Price           WirePrice `json:"price"`
	IsWinner        bool      `json:"is_winner"`
}

// ToRecord converts a wire bid into the canonical in-memory record.
func (w WireBid) ToRecord() core.BidRecord {
	return core.BidRecord{
		BidID:           w.BidID,
		RoundID:         w.RoundID,
		AssetTag:        w.AssetTag,
		BidderName:      w.BidderName,
		BidderCitizenID: w.BidderCitizenID,
		Location:        w.Location,
		Price:           int64(w.Price),
		IsWinner:        w.IsWinner,
	}
}

// WireAsset is one asset catalog entry.
type WireAsset struct {
	AssetTag      string    `json:"asset_tag"`
	StartingPrice WirePrice `json:"starting_price"`
}

func (w WireAsset) ToCatalogAsset() core.CatalogAsset {
	return core.CatalogAsset{
		AssetTag:      w.AssetTag,
		StartingPrice: int64(w.StartingPrice),
	}
}

// SubmitBidRequest is the payload for recording one staff-entered bid.
type SubmitBidRequest struct {
	AssetTag        string `json:"asset_tag"`
	BidderName      string `json:"bidder_name"`
	BidderCitizenID string `json:"citizen_id"`
	Location        string `json:"location,omitempty"`
	Price           int64  `json:"price"`
}

// ConfirmWinnerRequest persists a winner assignment.
type ConfirmWinnerRequest struct {
	AssetTag string `json:"asset_tag"`
	BidID    string `json:"bid_id"`
}

// FinalizeRequest is the bulk result submission sent when staff complete a
// round.
type FinalizeRequest struct {
	Results []core.RoundResult `json:"results"`
}

// AckResponse is the backend's generic response envelope. Message carries the
// human-readable cause on failure.
type AckResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
