package result

type (
	// Token is the result of getToken.
	Token struct {
		Symbol        string          `json:"symbol"`
		Name          string          `json:"name"`
		Decimals      int             `json:"decimals"`
		CurrentSupply string          `json:"currentSupply"`
		MaxSupply     string          `json:"maxSupply"`
		BurnedSupply  string          `json:"burnedSupply,omitempty"`
		Address       string          `json:"address"`
		Owner         string          `json:"owner"`
		Flags         string          `json:"flags"`
		Script        string          `json:"script,omitempty"`
		External      []TokenExternal `json:"external,omitempty"`
		Series        []TokenSeries   `json:"series,omitempty"`
	}

	// TokenExternal is the hash of a token on another platform.
	TokenExternal struct {
		Platform string `json:"platform"`
		Hash     string `json:"hash"`
	}

	// TokenSeries describes a series of a non-fungible token.
	TokenSeries struct {
		SeriesID      uint32 `json:"seriesID"`
		CurrentSupply string `json:"currentSupply"`
		MaxSupply     string `json:"maxSupply"`
		BurnedSupply  string `json:"burnedSupply,omitempty"`
		Mode          string `json:"mode"`
		Script        string `json:"script,omitempty"`
	}

	// TokenData is the result of getTokenData and getNFT.
	TokenData struct {
		ID             string          `json:"ID"`
		Series         string          `json:"series"`
		Mint           string          `json:"mint"`
		ChainName      string          `json:"chainName"`
		OwnerAddress   string          `json:"ownerAddress"`
		CreatorAddress string          `json:"creatorAddress"`
		RAM            string          `json:"ram"`
		ROM            string          `json:"rom"`
		Status         string          `json:"status"`
		ForSale        bool            `json:"forSale"`
		Infusion       []TokenProperty `json:"infusion,omitempty"`
		Properties     []TokenProperty `json:"properties,omitempty"`
	}

	// TokenProperty is a key/value pair of token data.
	TokenProperty struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}

	// Auction is a market auction.
	Auction struct {
		CreatorAddress  string `json:"creatorAddress"`
		ChainAddress    string `json:"chainAddress"`
		StartDate       uint32 `json:"startDate"`
		EndDate         uint32 `json:"endDate"`
		BaseSymbol      string `json:"baseSymbol"`
		QuoteSymbol     string `json:"quoteSymbol"`
		TokenID         string `json:"tokenId"`
		Price           string `json:"price"`
		EndPrice        string `json:"endPrice,omitempty"`
		ExtensionPeriod string `json:"extensionPeriod,omitempty"`
		Type            string `json:"type"`
		ROM             string `json:"rom,omitempty"`
		RAM             string `json:"ram,omitempty"`
		ListingFee      string `json:"listingFee,omitempty"`
		CurrentWinner   string `json:"currentWinner,omitempty"`
	}
)
