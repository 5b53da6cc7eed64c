package rpcclient

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/phantasma-io/phantasma-go/pkg/crypto/hash"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc/result"
)

// RootChainName is the name of the main chain of every nexus.
const RootChainName = "main"

// GetAccount returns the account name and balances of the given address.
func (c *Client) GetAccount(ctx context.Context, address string) (*result.Account, error) {
	var (
		params = []any{address}
		resp   = new(result.Account)
	)
	if err := c.performRequest(ctx, "getAccount", DefaultTimeout, params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetAccounts returns accounts of the given addresses. An empty list is
// answered locally without calling the node.
func (c *Client) GetAccounts(ctx context.Context, addresses []string) ([]result.Account, error) {
	if len(addresses) == 0 {
		return []result.Account{}, nil
	}
	var (
		params = []any{strings.Join(addresses, ",")}
		resp   = new([]result.Account)
	)
	if err := c.performRequest(ctx, "getAccounts", DefaultTimeout, params, resp); err != nil {
		return nil, err
	}
	return *resp, nil
}

// LookUpName returns the address that owns the given name.
func (c *Client) LookUpName(ctx context.Context, name string) (string, error) {
	var (
		params = []any{name}
		resp   string
	)
	if err := c.performRequest(ctx, "lookUpName", NoTimeout, params, &resp); err != nil {
		return "", err
	}
	return resp, nil
}

// GetAuctionsCount returns the number of active auctions.
func (c *Client) GetAuctionsCount(ctx context.Context, chain, symbol string) (int, error) {
	n, err := c.getNumber(ctx, "getAuctionsCount", []any{chain, symbol})
	return int(n), err
}

// GetAuctions returns a page of auctions available in the market.
func (c *Client) GetAuctions(ctx context.Context, chain, symbol string, page, pageSize uint32) (*result.Paginated[[]result.Auction], error) {
	var (
		params = []any{chain, symbol, page, pageSize}
		resp   = new(result.Paginated[[]result.Auction])
	)
	if err := c.performRequest(ctx, "getAuctions", NoTimeout, params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetAuction returns the auction for a specific token and ID.
func (c *Client) GetAuction(ctx context.Context, chain, symbol, id string) (*result.Auction, error) {
	var (
		params = []any{chain, symbol, id}
		resp   = new(result.Auction)
	)
	if err := c.performRequest(ctx, "getAuction", NoTimeout, params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetBlockHeight returns the height of a chain.
func (c *Client) GetBlockHeight(ctx context.Context, chain string) (uint64, error) {
	return c.getNumber(ctx, "getBlockHeight", []any{chain})
}

// GetBlockTransactionCountByHash returns the number of transactions of the
// given block.
func (c *Client) GetBlockTransactionCountByHash(ctx context.Context, blockHash string) (int, error) {
	n, err := c.getNumber(ctx, "getBlockTransactionCountByHash", []any{blockHash})
	return int(n), err
}

// GetBlockByHash returns a block by its hash.
func (c *Client) GetBlockByHash(ctx context.Context, blockHash string) (*result.Block, error) {
	return c.getBlock(ctx, "getBlockByHash", []any{blockHash})
}

// GetBlockByHeight returns a block of chain by its height.
func (c *Client) GetBlockByHeight(ctx context.Context, chain string, height uint64) (*result.Block, error) {
	return c.getBlock(ctx, "getBlockByHeight", []any{chain, strconv.FormatUint(height, 10)})
}

// GetLatestBlock returns the last block of chain.
func (c *Client) GetLatestBlock(ctx context.Context, chain string) (*result.Block, error) {
	return c.getBlock(ctx, "getLatestBlock", []any{chain})
}

func (c *Client) getBlock(ctx context.Context, method string, params []any) (*result.Block, error) {
	var resp = new(result.Block)
	if err := c.performRequest(ctx, method, NoTimeout, params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetTransactionByBlockHashAndIndex returns a transaction by block hash and
// its index in the block.
func (c *Client) GetTransactionByBlockHashAndIndex(ctx context.Context, blockHash string, index int) (*result.Transaction, error) {
	var (
		params = []any{blockHash, index}
		resp   = new(result.Transaction)
	)
	if err := c.performRequest(ctx, "getTransactionByBlockHashAndIndex", NoTimeout, params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetChains returns all chains of the nexus.
func (c *Client) GetChains(ctx context.Context) ([]result.Chain, error) {
	var resp = new([]result.Chain)
	if err := c.performRequest(ctx, "getChains", NoTimeout, nil, resp); err != nil {
		return nil, err
	}
	return *resp, nil
}

// GetContract returns a contract deployed on the main chain.
func (c *Client) GetContract(ctx context.Context, name string) (*result.Contract, error) {
	var (
		params = []any{RootChainName, name}
		resp   = new(result.Contract)
	)
	if err := c.performRequest(ctx, "getContract", DefaultTimeout, params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetContracts returns all contracts deployed on the main chain.
func (c *Client) GetContracts(ctx context.Context) ([]result.Contract, error) {
	var (
		params = []any{RootChainName}
		resp   = new([]result.Contract)
	)
	if err := c.performRequest(ctx, "getContracts", DefaultTimeout, params, resp); err != nil {
		return nil, err
	}
	return *resp, nil
}

// GetLeaderboard returns the leaderboard with the given name.
func (c *Client) GetLeaderboard(ctx context.Context, name string) (*result.Leaderboard, error) {
	var (
		params = []any{name}
		resp   = new(result.Leaderboard)
	)
	if err := c.performRequest(ctx, "getLeaderboard", NoTimeout, params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetNexus returns the description of the nexus.
func (c *Client) GetNexus(ctx context.Context) (*result.Nexus, error) {
	var resp = new(result.Nexus)
	if err := c.performRequest(ctx, "getNexus", NoTimeout, nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetOrganization returns the organization with the given ID.
func (c *Client) GetOrganization(ctx context.Context, id string) (*result.Organization, error) {
	return c.getOrganization(ctx, "getOrganization", id)
}

// GetOrganizationByName returns the organization with the given name.
func (c *Client) GetOrganizationByName(ctx context.Context, name string) (*result.Organization, error) {
	return c.getOrganization(ctx, "getOrganizationByName", name)
}

func (c *Client) getOrganization(ctx context.Context, method string, param string) (*result.Organization, error) {
	var resp = new(result.Organization)
	if err := c.performRequest(ctx, method, NoTimeout, []any{param}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetOrganizations returns all organizations.
func (c *Client) GetOrganizations(ctx context.Context) ([]result.Organization, error) {
	var resp = new([]result.Organization)
	if err := c.performRequest(ctx, "getOrganizations", NoTimeout, nil, resp); err != nil {
		return nil, err
	}
	return *resp, nil
}

// GetToken returns a token deployed on the nexus.
func (c *Client) GetToken(ctx context.Context, symbol string) (*result.Token, error) {
	var (
		params = []any{symbol}
		resp   = new(result.Token)
	)
	if err := c.performRequest(ctx, "getToken", NoTimeout, params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetTokens returns all tokens deployed on the nexus.
func (c *Client) GetTokens(ctx context.Context) ([]result.Token, error) {
	var resp = new([]result.Token)
	if err := c.performRequest(ctx, "getTokens", NoTimeout, nil, resp); err != nil {
		return nil, err
	}
	return *resp, nil
}

// GetTokenBalance returns the balance of symbol held by account on chain.
func (c *Client) GetTokenBalance(ctx context.Context, account, symbol, chain string) (*result.Balance, error) {
	if chain == "" {
		chain = RootChainName
	}
	var (
		params = []any{account, symbol, chain}
		resp   = new(result.Balance)
	)
	if err := c.performRequest(ctx, "getTokenBalance", NoTimeout, params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetAddressTransactions returns a page of the latest transactions of the
// given address.
func (c *Client) GetAddressTransactions(ctx context.Context, address string, page, pageSize uint32) (*result.Paginated[result.AddressTransactions], error) {
	var (
		params = []any{address, page, pageSize}
		resp   = new(result.Paginated[result.AddressTransactions])
	)
	if err := c.performRequest(ctx, "getAddressTransactions", NoTimeout, params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetAddressTransactionCount returns the number of transactions of address
// on chain.
func (c *Client) GetAddressTransactionCount(ctx context.Context, address, chain string) (int, error) {
	n, err := c.getNumber(ctx, "getAddressTransactionCount", []any{address, chain})
	return int(n), err
}

// SendRawTransaction broadcasts a hex-encoded signed transaction and returns
// the hash reported by the node. It is retried only when
// Options.BroadcastRetries is set.
func (c *Client) SendRawTransaction(ctx context.Context, txHex string) (string, error) {
	var (
		params = []any{txHex}
		resp   string
	)
	if err := c.performRequestRetries(ctx, "sendRawTransaction", NoTimeout, c.opts.BroadcastRetries, params, &resp); err != nil {
		return "", err
	}
	return resp, nil
}

// InvokeRawScript runs a hex-encoded script against the current chain state
// without changing it.
func (c *Client) InvokeRawScript(ctx context.Context, chain, scriptHex string) (*result.Script, error) {
	var (
		params = []any{chain, scriptHex}
		resp   = new(result.Script)
	)
	if err := c.performRequest(ctx, "invokeRawScript", NoTimeout, params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetTransaction returns a transaction by its hash.
func (c *Client) GetTransaction(ctx context.Context, h hash.Hash) (*result.Transaction, error) {
	var (
		params = []any{h.String()}
		resp   = new(result.Transaction)
	)
	if err := c.performRequest(ctx, "getTransaction", NoTimeout, params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetArchive returns info about a specific archive.
func (c *Client) GetArchive(ctx context.Context, h hash.Hash) (*result.Archive, error) {
	var (
		params = []any{h.String()}
		resp   = new(result.Archive)
	)
	if err := c.performRequest(ctx, "getArchive", NoTimeout, params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// WriteArchive writes a block of an incomplete archive.
func (c *Client) WriteArchive(ctx context.Context, h hash.Hash, blockIndex int, content string) (bool, error) {
	var (
		params = []any{h.String(), blockIndex, content}
		resp   json.RawMessage
	)
	if err := c.performRequest(ctx, "writeArchive", NoTimeout, params, &resp); err != nil {
		return false, err
	}
	var s string
	if json.Unmarshal(resp, &s) == nil {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, pharpc.NewFailure(pharpc.KindDecode, err, "writeArchive: unexpected result")
		}
		return b, nil
	}
	var b bool
	if err := json.Unmarshal(resp, &b); err != nil {
		return false, pharpc.NewFailure(pharpc.KindDecode, err, "writeArchive: unexpected result")
	}
	return b, nil
}

// ReadArchive returns a block of an archive.
func (c *Client) ReadArchive(ctx context.Context, h hash.Hash, blockIndex int) (string, error) {
	var (
		params = []any{h.String(), blockIndex}
		resp   string
	)
	if err := c.performRequest(ctx, "readArchive", NoTimeout, params, &resp); err != nil {
		return "", err
	}
	return resp, nil
}

// getNumber calls a method whose result is a non-negative integer, either as
// a JSON number or as a decimal string.
func (c *Client) getNumber(ctx context.Context, method string, params []any) (uint64, error) {
	var resp json.Number
	if err := c.performRequest(ctx, method, NoTimeout, params, &resp); err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(resp.String(), 10, 64)
	if err != nil {
		return 0, pharpc.NewFailure(pharpc.KindDecode, err, "%s: unexpected result", method)
	}
	return n, nil
}
