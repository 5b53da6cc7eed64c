package result

import (
	"strings"
)

// ExecutionState is the VM state a transaction finished in.
type ExecutionState string

// Execution states.
const (
	Running ExecutionState = "Running"
	Break   ExecutionState = "Break"
	Fault   ExecutionState = "Fault"
	Halt    ExecutionState = "Halt"
)

// EventKind names a chain event.
type EventKind string

// Event kinds used by transfer monitoring.
const (
	TokenSend    EventKind = "TokenSend"
	TokenReceive EventKind = "TokenReceive"
	TokenStake   EventKind = "TokenStake"
	TokenClaim   EventKind = "TokenClaim"
	TokenMint    EventKind = "TokenMint"
	TokenBurn    EventKind = "TokenBurn"
	GasEscrow    EventKind = "GasEscrow"
	GasPayment   EventKind = "GasPayment"
)

type (
	// Block is the result of getBlockByHash, getBlockByHeight and
	// getLatestBlock.
	Block struct {
		Hash             string        `json:"hash"`
		PreviousHash     string        `json:"previousHash"`
		Timestamp        uint32        `json:"timestamp"`
		Height           uint64        `json:"height"`
		ChainAddress     string        `json:"chainAddress"`
		Protocol         uint32        `json:"protocol"`
		Txs              []Transaction `json:"txs"`
		ValidatorAddress string        `json:"validatorAddress,omitempty"`
		Reward           string        `json:"reward,omitempty"`
		Events           []Event       `json:"events,omitempty"`
		Oracles          []Oracle      `json:"oracles,omitempty"`
	}

	// Transaction is the result of getTransaction.
	Transaction struct {
		Hash         string         `json:"hash"`
		ChainAddress string         `json:"chainAddress"`
		Timestamp    uint32         `json:"timestamp"`
		BlockHeight  uint64         `json:"blockHeight"`
		BlockHash    string         `json:"blockHash"`
		Script       string         `json:"script"`
		Payload      string         `json:"payload"`
		Events       []Event        `json:"events"`
		Result       string         `json:"result,omitempty"`
		Fee          string         `json:"fee,omitempty"`
		State        ExecutionState `json:"state,omitempty"`
		Signatures   []Signature    `json:"signatures,omitempty"`
		Expiration   uint32         `json:"expiration"`
		Sender       string         `json:"sender,omitempty"`
		GasPayer     string         `json:"gasPayer,omitempty"`
		GasTarget    string         `json:"gasTarget,omitempty"`
		GasPrice     string         `json:"gasPrice,omitempty"`
		GasLimit     string         `json:"gasLimit,omitempty"`
	}

	// Event is a single event emitted by a transaction.
	Event struct {
		Address  string    `json:"address"`
		Contract string    `json:"contract"`
		Kind     EventKind `json:"kind"`
		// Data is hex-encoded event data.
		Data string `json:"data"`
	}

	// Signature is a transaction signature as reported by the node.
	Signature struct {
		Kind string `json:"kind"`
		Data string `json:"data"`
	}

	// Oracle is an oracle read performed by a block or script.
	Oracle struct {
		URL     string `json:"url"`
		Content string `json:"content"`
	}

	// Script is the result of invokeRawScript.
	Script struct {
		Events  []Event  `json:"events"`
		Result  string   `json:"result"`
		Results []string `json:"results,omitempty"`
		Oracles []Oracle `json:"oracles,omitempty"`
	}
)

// IsHalted reports whether the transaction executed successfully.
func (t *Transaction) IsHalted() bool {
	return t.State == Halt
}

// Is reports whether the event is of the given kind and concerns addr.
// Addresses are compared case-insensitively.
func (e *Event) Is(kind EventKind, addr string) bool {
	return e.Kind == kind && strings.EqualFold(e.Address, addr)
}
