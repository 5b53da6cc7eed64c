/*
Package result contains the typed results of Phantasma node RPC calls.
Optional fields are pointers or omitempty slices: a field the node did not
send stays nil instead of turning into a zero value.
*/
package result

type (
	// Account is the result of getAccount.
	Account struct {
		Address   string    `json:"address"`
		Name      string    `json:"name"`
		Stakes    *Stake    `json:"stakes,omitempty"`
		Stake     string    `json:"stake,omitempty"`
		Unclaimed string    `json:"unclaimed,omitempty"`
		Relay     string    `json:"relay,omitempty"`
		Validator string    `json:"validator,omitempty"`
		Balances  []Balance `json:"balances"`
		Storage   *Storage  `json:"storage,omitempty"`
		Txs       []string  `json:"txs,omitempty"`
	}

	// Stake describes the staked amount of an account.
	Stake struct {
		Amount    string `json:"amount"`
		Time      uint32 `json:"time"`
		Unclaimed string `json:"unclaimed"`
	}

	// Storage describes the archive storage of an account.
	Storage struct {
		Available uint32    `json:"available"`
		Used      uint32    `json:"used"`
		Avatar    string    `json:"avatar,omitempty"`
		Archives  []Archive `json:"archives,omitempty"`
	}

	// Balance is the balance of a single token.
	Balance struct {
		Chain    string   `json:"chain"`
		Amount   string   `json:"amount"`
		Symbol   string   `json:"symbol"`
		Decimals int      `json:"decimals"`
		IDs      []string `json:"ids,omitempty"`
	}

	// Leaderboard is the result of getLeaderboard.
	Leaderboard struct {
		Name string           `json:"name"`
		Rows []LeaderboardRow `json:"rows"`
	}

	// LeaderboardRow is a single leaderboard entry.
	LeaderboardRow struct {
		Address string `json:"address"`
		Value   string `json:"value"`
	}

	// Organization is the result of getOrganization.
	Organization struct {
		ID      string   `json:"id"`
		Name    string   `json:"name"`
		Members []string `json:"members,omitempty"`
	}
)
