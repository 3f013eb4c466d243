package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client abstracts the external ledger service. Every call crosses the
// process boundary and may block until the request context is done.
type Client interface {
	// QueryBlocks returns up to length contiguous blocks starting at start.
	// A short or empty result is a normal outcome (the ledger may simply not
	// contain those blocks yet), never an error.
	QueryBlocks(ctx context.Context, start, length uint64) ([]Block, error)

	// TransferFee returns the current network transfer fee in e8s. Fees can
	// change between calls, so callers must re-fetch before every transfer.
	TransferFee(ctx context.Context) (uint64, error)

	// Transfer submits an outbound transfer and returns the index of the
	// block it was recorded in. Ledger-side rejections come back as a
	// *TransferError.
	Transfer(ctx context.Context, args TransferArgs) (uint64, error)
}

// HTTPClient talks JSON over HTTP to a ledger gateway.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type queryBlocksRequest struct {
	Start  uint64 `json:"start"`
	Length uint64 `json:"length"`
}

type queryBlocksResponse struct {
	Blocks []Block `json:"blocks"`
}

type transferFeeResponse struct {
	FeeE8s uint64 `json:"transfer_fee_e8s"`
}

type transferResponse struct {
	BlockIndex *uint64 `json:"block_index,omitempty"`
	Error      string  `json:"error,omitempty"`
}

func (c *HTTPClient) QueryBlocks(ctx context.Context, start, length uint64) ([]Block, error) {
	var resp queryBlocksResponse
	if err := c.post(ctx, "/query_blocks", queryBlocksRequest{Start: start, Length: length}, &resp); err != nil {
		return nil, err
	}
	return resp.Blocks, nil
}

func (c *HTTPClient) TransferFee(ctx context.Context) (uint64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transfer_fee", nil)
	if err != nil {
		return 0, err
	}

	var resp transferFeeResponse
	if err := c.do(req, &resp); err != nil {
		return 0, err
	}
	return resp.FeeE8s, nil
}

func (c *HTTPClient) Transfer(ctx context.Context, args TransferArgs) (uint64, error) {
	var resp transferResponse
	if err := c.post(ctx, "/transfer", args, &resp); err != nil {
		return 0, err
	}

	if resp.Error != "" {
		return 0, &TransferError{Reason: resp.Error}
	}
	if resp.BlockIndex == nil {
		return 0, fmt.Errorf("ledger transfer response carried neither block index nor error")
	}
	return *resp.BlockIndex, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ledger unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ledger returned status %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
