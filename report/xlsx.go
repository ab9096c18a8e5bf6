// Package report renders a round's results for staff: an XLSX workbook with
// a per-asset summary sheet and a full bid detail sheet.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/auctionhall/bidround/core"
	"github.com/auctionhall/bidround/session"
)

const (
	summarySheet = "Summary"
	bidsSheet    = "Bids"
)

var summaryHeader = []string{
	"Asset", "Starting Price", "Bids", "Unique Bidders",
	"Highest Price", "Lowest Price", "Average Price",
	"Tied At Top", "Competition", "Winner",
}

var bidsHeader = []string{
	"Bid ID", "Asset", "Bidder", "Citizen ID", "Location", "Price", "Winner",
}

// BuildRoundReport assembles the workbook in memory. Callers either save it
// to disk or stream it; tests read it back directly.
func BuildRoundReport(summary core.RoundSummary, board []session.AssetStanding, records []core.BidRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(bidsSheet); err != nil {
		return nil, fmt.Errorf("failed to create bids sheet: %w", err)
	}

	if err := writeSummarySheet(f, summary, board); err != nil {
		return nil, err
	}
	if err := writeBidsSheet(f, records); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteRoundReport builds the workbook and saves it to path.
func WriteRoundReport(path string, summary core.RoundSummary, board []session.AssetStanding, records []core.BidRecord) error {
	f, err := BuildRoundReport(summary, board, records)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report to %q: %w", path, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summary core.RoundSummary, board []session.AssetStanding) error {
	rows := [][]any{
		{"Round", summary.RoundID},
		{"Total bids", summary.TotalBids},
		{"Unique participants", summary.UniqueParticipants},
		{"Assets with bids", summary.AssetsWithBids},
		{},
	}

	header := make([]any, len(summaryHeader))
	for i, h := range summaryHeader {
		header[i] = h
	}
	rows = append(rows, header)

	for _, standing := range board {
		winnerName := ""
		if standing.Winner != nil {
			winnerName = standing.Winner.BidderName
		}
		highest, lowest, average := "", "", ""
		if standing.TotalBids > 0 {
			highest = core.FormatPrice(standing.HighestPrice)
			lowest = core.FormatPrice(standing.LowestPrice)
			average = standing.AveragePrice.StringFixed(2)
		}
		rows = append(rows, []any{
			standing.AssetTag,
			core.FormatPrice(standing.StartingPrice),
			standing.TotalBids,
			standing.UniqueBidders,
			highest,
			lowest,
			average,
			standing.HighestPriceBidders,
			standing.Competition.String(),
			winnerName,
		})
	}

	return writeRows(f, summarySheet, rows)
}

func writeBidsSheet(f *excelize.File, records []core.BidRecord) error {
	header := make([]any, len(bidsHeader))
	for i, h := range bidsHeader {
		header[i] = h
	}
	rows := [][]any{header}

	for _, rec := range records {
		winner := ""
		if rec.IsWinner {
			winner = "yes"
		}
		rows = append(rows, []any{
			rec.BidID,
			rec.AssetTag,
			rec.BidderName,
			rec.BidderCitizenID,
			rec.Location,
			core.FormatPrice(rec.Price),
			winner,
		})
	}

	return writeRows(f, bidsSheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("bad cell coordinate (%d,%d): %w", j+1, i+1, err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
