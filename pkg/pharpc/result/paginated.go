package result

// Paginated wraps results of paginated calls.
type Paginated[T any] struct {
	Page       uint32 `json:"page"`
	PageSize   uint32 `json:"pageSize"`
	Total      uint32 `json:"total"`
	TotalPages uint32 `json:"totalPages"`
	Result     T      `json:"result"`
}

// AddressTransactions is the paginated payload of getAddressTransactions.
type AddressTransactions struct {
	Address string        `json:"address"`
	Txs     []Transaction `json:"txs"`
}

// HasMore reports whether pages after this one exist.
func (p *Paginated[T]) HasMore() bool {
	return p.Page < p.TotalPages
}
