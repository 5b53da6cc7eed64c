package result

type (
	// Chain describes a chain of the nexus.
	Chain struct {
		Name         string   `json:"name"`
		Address      string   `json:"address"`
		Parent       string   `json:"parent,omitempty"`
		Height       uint64   `json:"height"`
		Organization string   `json:"organization,omitempty"`
		Contracts    []string `json:"contracts"`
		Dapps        []string `json:"dapps,omitempty"`
	}

	// Contract is the result of getContract.
	Contract struct {
		Name    string           `json:"name"`
		Address string           `json:"address"`
		Script  string           `json:"script"`
		Methods []ContractMethod `json:"methods,omitempty"`
		Events  []ContractEvent  `json:"events,omitempty"`
	}

	// ContractMethod describes an ABI method.
	ContractMethod struct {
		Name       string              `json:"name"`
		ReturnType string              `json:"returnType"`
		Parameters []ContractParameter `json:"parameters"`
	}

	// ContractParameter describes a method parameter.
	ContractParameter struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}

	// ContractEvent describes an ABI event.
	ContractEvent struct {
		Value       uint32 `json:"value"`
		Name        string `json:"name"`
		ReturnType  string `json:"returnType"`
		Description string `json:"description,omitempty"`
	}

	// Nexus is the result of getNexus.
	Nexus struct {
		Name          string       `json:"name"`
		Protocol      uint32       `json:"protocol"`
		Platforms     []Platform   `json:"platforms,omitempty"`
		Tokens        []Token      `json:"tokens,omitempty"`
		Chains        []Chain      `json:"chains"`
		Governance    []Governance `json:"governance,omitempty"`
		Organizations []string     `json:"organizations,omitempty"`
	}

	// Platform describes an interop platform.
	Platform struct {
		Platform string          `json:"platform"`
		Chain    string          `json:"chain"`
		Fuel     string          `json:"fuel"`
		Tokens   []string        `json:"tokens,omitempty"`
		Interop  []InteropRecord `json:"interop,omitempty"`
	}

	// InteropRecord maps a local address to an external one.
	InteropRecord struct {
		Local    string `json:"local"`
		External string `json:"external"`
	}

	// Governance is a single governance value.
	Governance struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}

	// Archive is the result of getArchive.
	Archive struct {
		Name          string   `json:"name"`
		Hash          string   `json:"hash"`
		Time          uint32   `json:"time"`
		Size          uint32   `json:"size"`
		Encryption    string   `json:"encryption"`
		BlockCount    int      `json:"blockCount"`
		MissingBlocks []int    `json:"missingBlocks,omitempty"`
		Owners        []string `json:"owners,omitempty"`
	}
)
