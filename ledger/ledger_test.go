package ledger

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/check"

	"github.com/auctionhall/bidround/core"
)

func bid(id, asset, citizenID string, price int64) core.BidRecord {
	return core.BidRecord{
		BidID:           id,
		RoundID:         "round-1",
		AssetTag:        asset,
		BidderName:      "bidder " + citizenID,
		BidderCitizenID: citizenID,
		Price:           price,
	}
}

func TestAddBid_AppendsInOrder(t *testing.T) {
	l := New()

	check.NoError(t, l.AddBid(bid("b1", "Lot A", "c1", 100)))
	check.NoError(t, l.AddBid(bid("b2", "Lot A", "c2", 120)))
	check.NoError(t, l.AddBid(bid("b3", "Lot B", "c1", 90)))

	snap := l.Snapshot()
	check.Equal(t, 3, len(snap))
	check.Equal(t, "b1", snap[0].BidID)
	check.Equal(t, "b2", snap[1].BidID)
	check.Equal(t, "b3", snap[2].BidID)
}

func TestAddBid_Rejections(t *testing.T) {
	l := New()

	var vErr *core.ValidationError

	err := l.AddBid(core.BidRecord{RoundID: "round-1", AssetTag: "Lot A", Price: 100})
	check.Error(t, err)
	check.True(t, errors.As(err, &vErr))

	negative := bid("b1", "Lot A", "c1", 100)
	negative.Price = -1
	err = l.AddBid(negative)
	check.Error(t, err)
	check.True(t, errors.As(err, &vErr))

	check.NoError(t, l.AddBid(bid("b1", "Lot A", "c1", 100)))
	err = l.AddBid(bid("b1", "Lot A", "c1", 200))
	check.Error(t, err)
	check.Equal(t, 1, l.Len())
}

func TestBidsForAsset_FiltersAndPreservesOrder(t *testing.T) {
	l := New()
	check.NoError(t, l.AddBid(bid("b1", "Lot A", "c1", 100)))
	check.NoError(t, l.AddBid(bid("b2", "Lot B", "c2", 500)))
	check.NoError(t, l.AddBid(bid("b3", "Lot A", "c3", 110)))

	bids := l.BidsForAsset("round-1", "Lot A")
	check.Equal(t, 2, len(bids))
	check.Equal(t, "b1", bids[0].BidID)
	check.Equal(t, "b3", bids[1].BidID)

	check.Equal(t, 0, len(l.BidsForAsset("round-1", "Lot Z")))
	check.Equal(t, 0, len(l.BidsForAsset("round-2", "Lot A")))
}

func TestSetWinnerFlag_UnknownBid(t *testing.T) {
	l := New()

	err := l.SetWinnerFlag("ghost", true)
	check.Error(t, err)
	var nfErr *core.NotFoundError
	check.True(t, errors.As(err, &nfErr))
	check.Equal(t, "ghost", nfErr.BidID)
}

func TestRemoveBid_SilentWhenAbsent(t *testing.T) {
	l := New()
	check.NoError(t, l.AddBid(bid("b1", "Lot A", "c1", 100)))

	before := l.Version()
	l.RemoveBid("ghost")
	check.Equal(t, before, l.Version())
	check.Equal(t, 1, l.Len())

	l.RemoveBid("b1")
	check.Equal(t, 0, l.Len())
	check.Equal(t, 0, len(l.Snapshot()))
}

func TestSnapshot_IsACopy(t *testing.T) {
	l := New()
	check.NoError(t, l.AddBid(bid("b1", "Lot A", "c1", 100)))

	snap := l.Snapshot()
	snap[0].IsWinner = true
	snap[0].Price = 999

	got, ok := l.Get("b1")
	check.True(t, ok)
	check.False(t, got.IsWinner)
	check.Equal(t, int64(100), got.Price)
}

func TestSubscribe_NotifiedOnEveryMutation(t *testing.T) {
	l := New()

	var versions []uint64
	l.Subscribe(func(v uint64) { versions = append(versions, v) })

	check.NoError(t, l.AddBid(bid("b1", "Lot A", "c1", 100)))
	check.NoError(t, l.AddBid(bid("b2", "Lot A", "c2", 120)))
	l.RemoveBid("b2")
	check.NoError(t, l.SetWinnerFlag("b1", true))

	check.Equal(t, []uint64{1, 2, 3, 4}, versions)
	check.Equal(t, uint64(4), l.Version())
}

func TestHasBidFor(t *testing.T) {
	l := New()
	check.NoError(t, l.AddBid(bid("b1", "Lot A", "c1", 100)))

	check.True(t, l.HasBidFor("c1", "Lot A"))
	check.False(t, l.HasBidFor("c1", "Lot B"))
	check.False(t, l.HasBidFor("c2", "Lot A"))
}
