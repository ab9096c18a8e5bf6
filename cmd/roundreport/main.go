// roundreport prints or exports the asset board for one auction round.
//
// It reads bids either live from the auction backend (with --config) or from
// a JSON dump (with --bids), and writes a text board to stdout or an XLSX
// workbook with --format xlsx.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/auctionhall/bidround/backendapi"
	"github.com/auctionhall/bidround/config"
	"github.com/auctionhall/bidround/core"
	"github.com/auctionhall/bidround/report"
	"github.com/auctionhall/bidround/session"
)

func main() {
	var (
		configPath   = flag.String("config", "", "Path to YAML config (required for live backend access)")
		auctionID    = flag.String("auction", "", "Auction id (for the asset catalog in live mode)")
		roundID      = flag.String("round", "", "Round id to report on")
		bidsInput    = flag.String("bids", "", "Bid list JSON (file path or inline JSON) for offline mode")
		assetsInput  = flag.String("assets", "", "Asset catalog JSON (file path or inline JSON) for offline mode")
		outputFormat = flag.String("format", "text", "Output format: text or xlsx")
		outputPath   = flag.String("out", "round.xlsx", "Output path for xlsx format")
		help         = flag.Bool("help", false, "Show usage information")
	)

	flag.Parse()

	if *help {
		showUsage()
		os.Exit(0)
	}

	if *roundID == "" {
		showUsage()
		fmt.Fprintf(os.Stderr, "\nError: --round is required\n")
		os.Exit(1)
	}
	if *configPath == "" && *bidsInput == "" {
		showUsage()
		fmt.Fprintf(os.Stderr, "\nError: either --config (live mode) or --bids (offline mode) is required\n")
		os.Exit(1)
	}

	round, err := loadRound(*configPath, *auctionID, *roundID, *bidsInput, *assetsInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading round: %v\n", err)
		os.Exit(exitCode(err))
	}

	switch *outputFormat {
	case "text":
		printBoard(os.Stdout, round)
	case "xlsx":
		err := report.WriteRoundReport(*outputPath, round.Summary(), round.AssetBoard(), round.Ledger().Snapshot())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(4)
		}
		fmt.Printf("Report written to %s\n", *outputPath)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (want text or xlsx)\n", *outputFormat)
		os.Exit(1)
	}
}

func exitCode(err error) int {
	var netErr *core.NetworkError
	if errors.As(err, &netErr) {
		return 3
	}
	return 2
}

// loadRound builds a session.Round from either the live backend or offline
// JSON dumps.
func loadRound(configPath, auctionID, roundID, bidsInput, assetsInput string) (*session.Round, error) {
	if bidsInput != "" {
		return loadOfflineRound(roundID, bidsInput, assetsInput)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = log.Sync()
	}()

	client := backendapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.AuthToken, cfg.Timeout(), log)
	round := session.NewRound(auctionID, roundID, client, log)
	if err := round.Load(context.Background()); err != nil {
		return nil, err
	}
	return round, nil
}

// offlineBackend serves a Round from pre-dumped JSON instead of the live API.
type offlineBackend struct {
	bids   []core.BidRecord
	assets []core.CatalogAsset
}

func (o *offlineBackend) ListBidsForRound(context.Context, string) ([]core.BidRecord, error) {
	return o.bids, nil
}

func (o *offlineBackend) ListAssetsForAuction(context.Context, string) ([]core.CatalogAsset, error) {
	return o.assets, nil
}

func (o *offlineBackend) SubmitBid(context.Context, string, core.DraftBid) (core.BidRecord, error) {
	return core.BidRecord{}, fmt.Errorf("offline mode is read-only")
}

func (o *offlineBackend) ConfirmWinner(context.Context, string, string, string) error {
	return fmt.Errorf("offline mode is read-only")
}

func (o *offlineBackend) FinalizeRoundResults(context.Context, string, []core.RoundResult) error {
	return fmt.Errorf("offline mode is read-only")
}

func loadOfflineRound(roundID, bidsInput, assetsInput string) (*session.Round, error) {
	backend := &offlineBackend{}

	var wireBids []backendapi.WireBid
	if err := readJSONInput(bidsInput, &wireBids); err != nil {
		return nil, fmt.Errorf("reading bids: %w", err)
	}
	for _, w := range wireBids {
		backend.bids = append(backend.bids, w.ToRecord())
	}

	if assetsInput != "" {
		var wireAssets []backendapi.WireAsset
		if err := readJSONInput(assetsInput, &wireAssets); err != nil {
			return nil, fmt.Errorf("reading assets: %w", err)
		}
		for _, w := range wireAssets {
			backend.assets = append(backend.assets, w.ToCatalogAsset())
		}
	}

	round := session.NewRound("", roundID, backend, zap.NewNop())
	if err := round.Load(context.Background()); err != nil {
		return nil, err
	}
	return round, nil
}

// readJSONInput accepts either a file path or inline JSON.
func readJSONInput(input string, out any) error {
	data := []byte(input)
	if !strings.HasPrefix(strings.TrimSpace(input), "[") {
		fileData, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", input, err)
		}
		data = fileData
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

func printBoard(w *os.File, round *session.Round) {
	summary := round.Summary()
	fmt.Fprintf(w, "Round %s: %d bids, %d participants, %d assets with bids\n\n",
		summary.RoundID, summary.TotalBids, summary.UniqueParticipants, summary.AssetsWithBids)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ASSET\tSTART\tBIDS\tBIDDERS\tHIGHEST\tTIED\tCOMPETITION\tWINNER")
	for _, standing := range round.AssetBoard() {
		highest := "-"
		if standing.TotalBids > 0 {
			highest = core.FormatPrice(standing.HighestPrice)
		}
		winner := "-"
		if standing.Winner != nil {
			winner = standing.Winner.BidderName
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%d\t%s\t%s\n",
			standing.AssetTag,
			core.FormatPrice(standing.StartingPrice),
			standing.TotalBids,
			standing.UniqueBidders,
			highest,
			standing.HighestPriceBidders,
			standing.Competition,
			winner)
	}
	_ = tw.Flush()
}

func showUsage() {
	fmt.Println("roundreport - asset board and XLSX export for one auction round")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  roundreport --config config.yaml --auction A --round R [--format text|xlsx] [--out round.xlsx]")
	fmt.Println("  roundreport --bids bids.json [--assets assets.json] --round R [--format text|xlsx]")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Exit codes: 0 ok, 1 usage, 2 input, 3 network, 4 output")
}
