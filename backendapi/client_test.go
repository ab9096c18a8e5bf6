package backendapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/peterldowns/testy/check"

	"github.com/auctionhall/bidround/core"
)

func TestListBidsForRound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check.Equal(t, http.MethodGet, r.Method)
		check.Equal(t, "/rounds/r1/bids", r.URL.Path)
		check.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"bid_id":"b1","round_id":"r1","asset_tag":"Lot A","bidder_name":"Alice","citizen_id":"c1","price":"100"},
			{"bid_id":"b2","round_id":"r1","asset_tag":"Lot A","bidder_name":"Bob","citizen_id":"c2","price":150}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token-1", 0, nil)
	records, err := client.ListBidsForRound(context.Background(), "r1")

	check.NoError(t, err)
	check.Equal(t, 2, len(records))
	check.Equal(t, int64(100), records[0].Price)
	check.Equal(t, int64(150), records[1].Price)
}

func TestListAssetsForAuction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check.Equal(t, "/auctions/a1/assets", r.URL.Path)
		_, _ = w.Write([]byte(`[{"asset_tag":"Lot A","starting_price":500000}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0, nil)
	assets, err := client.ListAssetsForAuction(context.Background(), "a1")

	check.NoError(t, err)
	check.Equal(t, 1, len(assets))
	check.Equal(t, "Lot A", assets[0].AssetTag)
	check.Equal(t, int64(500000), assets[0].StartingPrice)
}

func TestSubmitBid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check.Equal(t, http.MethodPost, r.Method)
		check.Equal(t, "/rounds/r1/bids", r.URL.Path)

		var req SubmitBidRequest
		check.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		check.Equal(t, "Lot A", req.AssetTag)
		check.Equal(t, int64(750000), req.Price)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"bid_id":"srv-9","asset_tag":"Lot A","bidder_name":"Alice","citizen_id":"c1","price":750000}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0, nil)
	rec, err := client.SubmitBid(context.Background(), "r1", core.DraftBid{
		AssetTag:        "Lot A",
		BidderName:      "Alice",
		BidderCitizenID: "c1",
		Price:           750000,
	})

	check.NoError(t, err)
	check.Equal(t, "srv-9", rec.BidID)
	// Round id is filled in when the backend omits it
	check.Equal(t, "r1", rec.RoundID)
}

func TestConfirmWinner_BackendRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"message":"round already finalized"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0, nil)
	err := client.ConfirmWinner(context.Background(), "r1", "Lot A", "b1")

	check.Error(t, err)
	var netErr *core.NetworkError
	check.True(t, errors.As(err, &netErr))
	check.Equal(t, "confirm winner", netErr.Op)
	check.True(t, netErr.Err != nil)
}

func TestFinalizeRoundResults(t *testing.T) {
	var got FinalizeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check.Equal(t, "/rounds/r1/finalize", r.URL.Path)
		check.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", 0, nil)
	err := client.FinalizeRoundResults(context.Background(), "r1", []core.RoundResult{
		{CitizenID: "c1", BidderName: "Alice", AssetTag: "Lot A", Price: 100, IsWinner: true},
	})

	check.NoError(t, err)
	check.Equal(t, 1, len(got.Results))
	check.Equal(t, "c1", got.Results[0].CitizenID)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	client := NewClient(srv.URL, "", 0, nil)
	_, err := client.ListBidsForRound(context.Background(), "r1")

	check.Error(t, err)
	var netErr *core.NetworkError
	check.True(t, errors.As(err, &netErr))
}
