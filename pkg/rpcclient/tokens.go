package rpcclient

import (
	"context"

	"github.com/phantasma-io/phantasma-go/pkg/pharpc/result"
)

// GetTokenData returns the data of a non-fungible token. Token data calls
// wait for a free slot under the client's concurrency ceiling.
func (c *Client) GetTokenData(ctx context.Context, symbol, id string) (*result.TokenData, error) {
	var resp = new(result.TokenData)
	if err := c.performGated(ctx, "getTokenData", []any{symbol, id}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetNFT returns the data of a non-fungible token.
func (c *Client) GetNFT(ctx context.Context, symbol, id string) (*result.TokenData, error) {
	var resp = new(result.TokenData)
	if err := c.performGated(ctx, "getNFT", []any{symbol, id}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetNFTs returns the data of several non-fungible tokens of one symbol.
func (c *Client) GetNFTs(ctx context.Context, symbol string, ids []string) ([]result.TokenData, error) {
	if ids == nil {
		ids = []string{}
	}
	var resp = new([]result.TokenData)
	if err := c.performGated(ctx, "getNFTs", []any{symbol, ids}, resp); err != nil {
		return nil, err
	}
	return *resp, nil
}

func (c *Client) performGated(ctx context.Context, method string, params []any, v any) error {
	if err := c.tokenGate.Acquire(ctx, 1); err != nil {
		return ctxFailure(method, err)
	}
	tokenDataInFlight.Inc()
	defer func() {
		tokenDataInFlight.Dec()
		c.tokenGate.Release(1)
	}()
	return c.performRequest(ctx, method, NoTimeout, params, v)
}
