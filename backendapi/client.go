package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/auctionhall/bidround/core"
)

const defaultTimeout = 15 * time.Second

// Client is the HTTP client for the auction backend. It performs no retries;
// every failed call surfaces once as a core.NetworkError and the user retries
// through the UI action that triggered it.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient builds a client for the backend at baseURL. A zero timeout falls
// back to the default; a nil logger disables logging.
func NewClient(baseURL, authToken string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authToken:  authToken,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// ListBidsForRound fetches all bids recorded for a round, normalizing prices
// at the wire boundary.
func (c *Client) ListBidsForRound(ctx context.Context, roundID string) ([]core.BidRecord, error) {
	op := "list bids"
	path := fmt.Sprintf("/rounds/%s/bids", url.PathEscape(roundID))

	var wire []WireBid
	if err := c.do(ctx, op, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}

	records := make([]core.BidRecord, 0, len(wire))
	for _, w := range wire {
		records = append(records, w.ToRecord())
	}
	c.log.Debug("fetched bids", zap.String("round_id", roundID), zap.Int("count", len(records)))
	return records, nil
}

// ListAssetsForAuction fetches the asset catalog for an auction.
func (c *Client) ListAssetsForAuction(ctx context.Context, auctionID string) ([]core.CatalogAsset, error) {
	op := "list assets"
	path := fmt.Sprintf("/auctions/%s/assets", url.PathEscape(auctionID))

	var wire []WireAsset
	if err := c.do(ctx, op, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}

	assets := make([]core.CatalogAsset, 0, len(wire))
	for _, w := range wire {
		assets = append(assets, w.ToCatalogAsset())
	}
	return assets, nil
}

// SubmitBid records one staff-entered bid with the backend and returns the
// stored record. The caller applies the duplicate policy before this call.
func (c *Client) SubmitBid(ctx context.Context, roundID string, draft core.DraftBid) (core.BidRecord, error) {
	op := "submit bid"
	path := fmt.Sprintf("/rounds/%s/bids", url.PathEscape(roundID))
	req := SubmitBidRequest{
		AssetTag:        draft.AssetTag,
		BidderName:      draft.BidderName,
		BidderCitizenID: draft.BidderCitizenID,
		Location:        draft.Location,
		Price:           draft.Price,
	}

	var wire WireBid
	if err := c.do(ctx, op, http.MethodPost, path, req, &wire); err != nil {
		return core.BidRecord{}, err
	}

	rec := wire.ToRecord()
	if rec.RoundID == "" {
		rec.RoundID = roundID
	}
	c.log.Info("bid submitted",
		zap.String("round_id", roundID),
		zap.String("asset_tag", draft.AssetTag),
		zap.String("bid_id", rec.BidID))
	return rec, nil
}

// ConfirmWinner persists a winner assignment.
func (c *Client) ConfirmWinner(ctx context.Context, roundID, assetTag, bidID string) error {
	op := "confirm winner"
	path := fmt.Sprintf("/rounds/%s/winner", url.PathEscape(roundID))
	req := ConfirmWinnerRequest{AssetTag: assetTag, BidID: bidID}

	var ack AckResponse
	if err := c.do(ctx, op, http.MethodPost, path, req, &ack); err != nil {
		return err
	}
	c.log.Info("winner confirmed",
		zap.String("round_id", roundID),
		zap.String("asset_tag", assetTag),
		zap.String("bid_id", bidID))
	return nil
}

// FinalizeRoundResults submits the bulk result list when staff complete a
// round.
func (c *Client) FinalizeRoundResults(ctx context.Context, roundID string, results []core.RoundResult) error {
	op := "finalize round"
	path := fmt.Sprintf("/rounds/%s/finalize", url.PathEscape(roundID))

	var ack AckResponse
	if err := c.do(ctx, op, http.MethodPost, path, FinalizeRequest{Results: results}, &ack); err != nil {
		return err
	}
	c.log.Info("round finalized",
		zap.String("round_id", roundID),
		zap.Int("results", len(results)))
	return nil
}

// do runs one JSON request/response exchange. Transport failures, non-2xx
// statuses, and undecodable bodies all come back as core.NetworkError.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &core.NetworkError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &core.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("backend request failed", zap.String("op", op), zap.Error(err))
		return &core.NetworkError{Op: op, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &core.NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := backendMessage(respBody)
		c.log.Warn("backend rejected request",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return &core.NetworkError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, msg)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &core.NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// backendMessage extracts the backend's error message from a failure body,
// falling back to a generic label when the body is not an ack envelope.
func backendMessage(body []byte) string {
	var ack AckResponse
	if err := json.Unmarshal(body, &ack); err == nil && ack.Message != "" {
		return ack.Message
	}
	return "backend error"
}
