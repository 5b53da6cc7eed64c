package link

import (
	"math/big"
	"sort"
	"sync"

	"github.com/phantasma-io/phantasma-go/pkg/encoding/unit"
	"github.com/shopspring/decimal"
)

type (
	// Balance is a wallet-reported holding of a single token.
	Balance struct {
		Symbol   string
		Amount   *big.Int
		Decimals int
		// IDs are the non-fungible token ids held, if any.
		IDs []string
	}

	// AccountSnapshot is the account state reported by the wallet.
	AccountSnapshot struct {
		Address     string
		DisplayName string
		Balances    []Balance
	}

	// AccountCache keeps the latest account snapshot of a session. Every
	// Replace fully substitutes the previous state.
	AccountCache struct {
		mtx      sync.RWMutex
		balances map[string]Balance
		owned    map[string]Balance
	}
)

// NewAccountCache returns an empty cache.
func NewAccountCache() *AccountCache {
	return &AccountCache{
		balances: make(map[string]Balance),
		owned:    make(map[string]Balance),
	}
}

// Replace drops all cached balances and ownership and fills the cache from
// snap.
func (c *AccountCache) Replace(snap *AccountSnapshot) {
	balances := make(map[string]Balance, len(snap.Balances))
	owned := make(map[string]Balance)
	for _, b := range snap.Balances {
		balances[b.Symbol] = b
		if len(b.IDs) > 0 {
			owned[b.Symbol] = b
		}
	}
	c.mtx.Lock()
	c.balances = balances
	c.owned = owned
	c.mtx.Unlock()
}

// Clear empties the cache.
func (c *AccountCache) Clear() {
	c.Replace(&AccountSnapshot{})
}

// Balance returns the amount of symbol held in human units, zero if the
// token is not held.
func (c *AccountCache) Balance(symbol string) decimal.Decimal {
	b, ok := c.RawBalance(symbol)
	if !ok || b.Amount == nil {
		return decimal.Zero
	}
	return unit.ToDecimal(b.Amount, b.Decimals)
}

// RawBalance returns the cached entry for symbol.
func (c *AccountCache) RawBalance(symbol string) (Balance, bool) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	b, ok := c.balances[symbol]
	return b, ok
}

// NFTs returns the ids of symbol held, an empty slice if none.
func (c *AccountCache) NFTs(symbol string) []string {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	b, ok := c.owned[symbol]
	if !ok {
		return []string{}
	}
	return append([]string(nil), b.IDs...)
}

// Owns checks whether the account holds the id of symbol.
func (c *AccountCache) Owns(symbol, id string) bool {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	for _, v := range c.owned[symbol].IDs {
		if v == id {
			return true
		}
	}
	return false
}

// Assets returns sorted symbols of all cached balances.
func (c *AccountCache) Assets() []string {
	c.mtx.RLock()
	res := make([]string, 0, len(c.balances))
	for s := range c.balances {
		res = append(res, s)
	}
	c.mtx.RUnlock()
	sort.Strings(res)
	return res
}

// Len returns the number of cached balances.
func (c *AccountCache) Len() int {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return len(c.balances)
}
