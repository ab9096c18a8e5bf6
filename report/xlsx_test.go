package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/auctionhall/bidround/core"
	"github.com/auctionhall/bidround/session"
)

func sampleReportInput() (core.RoundSummary, []session.AssetStanding, []core.BidRecord) {
	records := []core.BidRecord{
		{BidID: "b1", RoundID: "r1", AssetTag: "Lot A", BidderName: "Alice", BidderCitizenID: "c1", Price: 100},
		{BidID: "b2", RoundID: "r1", AssetTag: "Lot A", BidderName: "Bob", BidderCitizenID: "c2", Price: 150, IsWinner: true},
	}
	board := []session.AssetStanding{
		{
			AssetAggregate: core.AssetAggregate{
				AssetTag:            "Lot A",
				TotalBids:           2,
				UniqueBidders:       2,
				HighestPrice:        150,
				LowestPrice:         100,
				HighestPriceBidders: 1,
				AveragePrice:        decimal.NewFromInt(125),
				Competition:         core.CompetitionLow,
			},
			StartingPrice: 90,
			Winner:        &records[1],
		},
		{
			AssetAggregate: core.AssetAggregate{AssetTag: "Lot B"},
			StartingPrice:  200,
		},
	}
	summary := core.SummarizeRound("r1", records)
	return summary, board, records
}

func TestBuildRoundReport(t *testing.T) {
	summary, board, records := sampleReportInput()

	f, err := BuildRoundReport(summary, board, records)
	check.NoError(t, err)
	defer func() {
		check.NoError(t, f.Close())
	}()

	sheets := f.GetSheetList()
	check.Equal(t, 2, len(sheets))
	check.Equal(t, "Summary", sheets[0])
	check.Equal(t, "Bids", sheets[1])

	roundCell, err := f.GetCellValue("Summary", "B1")
	check.NoError(t, err)
	check.Equal(t, "r1", roundCell)

	// First data row under the header (rows 1-5 are totals + blank, row 6 is
	// the header)
	asset, err := f.GetCellValue("Summary", "A7")
	check.NoError(t, err)
	check.Equal(t, "Lot A", asset)

	avg, err := f.GetCellValue("Summary", "G7")
	check.NoError(t, err)
	check.Equal(t, "125.00", avg)

	winner, err := f.GetCellValue("Summary", "J7")
	check.NoError(t, err)
	check.Equal(t, "Bob", winner)

	// Zero-bid asset renders blank prices
	highest, err := f.GetCellValue("Summary", "E8")
	check.NoError(t, err)
	check.Equal(t, "", highest)

	bidID, err := f.GetCellValue("Bids", "A2")
	check.NoError(t, err)
	check.Equal(t, "b1", bidID)

	won, err := f.GetCellValue("Bids", "G3")
	check.NoError(t, err)
	check.Equal(t, "yes", won)
}

func TestWriteRoundReport_SavesFile(t *testing.T) {
	summary, board, records := sampleReportInput()
	path := filepath.Join(t.TempDir(), "round.xlsx")

	check.NoError(t, WriteRoundReport(path, summary, board, records))

	info, err := os.Stat(path)
	check.NoError(t, err)
	check.True(t, info.Size() > 0)
}
