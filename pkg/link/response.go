package link

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phantasma-io/phantasma-go/pkg/encoding/unit"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc"
)

// PlatformKind is the chain platform a wallet signs for.
type PlatformKind byte

// Platform kinds.
const (
	PlatformNone      PlatformKind = 0x0
	PlatformPhantasma PlatformKind = 0x1
	PlatformNeo       PlatformKind = 0x2
	PlatformEthereum  PlatformKind = 0x4
	PlatformBSC       PlatformKind = 0x8
)

var platformNames = map[PlatformKind]string{
	PlatformNone:      "None",
	PlatformPhantasma: "Phantasma",
	PlatformNeo:       "Neo",
	PlatformEthereum:  "Ethereum",
	PlatformBSC:       "BSC",
}

// String returns the name used in wallet request paths.
func (p PlatformKind) String() string {
	if s, ok := platformNames[p]; ok {
		return s
	}
	return fmt.Sprintf("PlatformKind(%d)", byte(p))
}

// ParsePlatformKind is the inverse of PlatformKind.String, case-insensitive.
func ParsePlatformKind(s string) (PlatformKind, error) {
	for k, name := range platformNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown platform %q", s)
}

type (
	// response is a wallet reply. Fields absent from the JSON stay nil.
	response struct {
		ID        *uint64        `json:"id"`
		Success   *bool          `json:"success"`
		Message   *string        `json:"message"`
		Wallet    *string        `json:"wallet"`
		Token     *string        `json:"token"`
		Nexus     *string        `json:"nexus"`
		Name      *string        `json:"name"`
		Address   *string        `json:"address"`
		Hash      *string        `json:"hash"`
		Signature *string        `json:"signature"`
		Random    *string        `json:"random"`
		Balances  []balanceEntry `json:"balances"`
	}

	balanceEntry struct {
		Symbol   *string  `json:"symbol"`
		Value    *string  `json:"value"`
		Decimals int      `json:"decimals"`
		IDs      []string `json:"ids"`
	}
)

func decodeResponse(frame []byte) (*response, error) {
	r := new(response)
	if err := json.Unmarshal(frame, r); err != nil {
		return nil, err
	}
	if r.ID == nil {
		return nil, fmt.Errorf("no request id")
	}
	return r, nil
}

func (r *response) succeeded() bool {
	return r.Success != nil && *r.Success
}

func (r *response) message() string {
	return str(r.Message)
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// required returns the value of a mandatory field or a decode failure.
func required(op string, name string, v *string) (string, error) {
	if v == nil {
		return "", pharpc.NewFailure(pharpc.KindDecode, nil, "%s: no %s in response", op, name)
	}
	return *v, nil
}

func (r *response) snapshot() (*AccountSnapshot, error) {
	addr, err := required("getAccount", "address", r.Address)
	if err != nil {
		return nil, err
	}
	snap := &AccountSnapshot{
		Address:     addr,
		DisplayName: str(r.Name),
		Balances:    make([]Balance, 0, len(r.Balances)),
	}
	for _, e := range r.Balances {
		symbol, err := required("getAccount", "balance symbol", e.Symbol)
		if err != nil {
			return nil, err
		}
		value, err := required("getAccount", "balance value", e.Value)
		if err != nil {
			return nil, err
		}
		amount, ok := unit.Parse(value)
		if !ok {
			return nil, pharpc.NewFailure(pharpc.KindDecode, nil, "getAccount: bad %s balance %q", symbol, value)
		}
		ids := e.IDs
		if ids == nil {
			ids = []string{}
		}
		snap.Balances = append(snap.Balances, Balance{
			Symbol:   symbol,
			Amount:   amount,
			Decimals: e.Decimals,
			IDs:      ids,
		})
	}
	return snap, nil
}
