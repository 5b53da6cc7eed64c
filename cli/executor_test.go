package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/phantasma-io/phantasma-go/cli/app"
	"github.com/phantasma-io/phantasma-go/cli/input"
	"github.com/phantasma-io/phantasma-go/pkg/core/transaction"
	"github.com/phantasma-io/phantasma-go/pkg/crypto/keys"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc/result"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
	"golang.org/x/term"
)

const (
	testWIF    = "KxhEDBQyyEFymvfJD96q8stMbJMbZUb6D1PmXqBWZDU2WvbvVs9o"
	testTxHash = "5E8AE5E1C0BEE1D1D8F33C5BD2B5C8F7A4CCE52E2A6DAA2E0C26A9E0B9E3A5A1"
)

var (
	testKey, _  = keys.NewKeyPairFromWIF(testWIF)
	testAddress = testKey.Address().String()
)

// executor represents context for a test instance.
// It can be safely used in multiple tests, but not in parallel.
type executor struct {
	// CLI is a cli application to test.
	CLI *cli.App
	// Out contains command output.
	Out *bytes.Buffer
	// Err contains command errors.
	Err *bytes.Buffer
	// In contains command input.
	In *bytes.Buffer
}

func newExecutor(t *testing.T) *executor {
	e := &executor{
		CLI: app.New(),
		Out: bytes.NewBuffer(nil),
		Err: bytes.NewBuffer(nil),
		In:  bytes.NewBuffer(nil),
	}
	e.CLI.Writer = e.Out
	e.CLI.ErrWriter = e.Err
	t.Cleanup(func() {
		input.Terminal = nil
	})
	return e
}

func (e *executor) getNextLine(t *testing.T) string {
	line, err := e.Out.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimSuffix(line, "\n")
}

func (e *executor) checkNextLine(t *testing.T, expected string) {
	line := e.getNextLine(t)
	require.Regexp(t, expected, line)
}

func (e *executor) checkEOF(t *testing.T) {
	_, err := e.Out.ReadString('\n')
	require.True(t, errors.Is(err, io.EOF))
}

func setExitFunc() <-chan int {
	ch := make(chan int, 1)
	cli.OsExiter = func(code int) {
		ch <- code
	}
	return ch
}

func checkExit(t *testing.T, ch <-chan int, code int) {
	select {
	case c := <-ch:
		require.Equal(t, code, c)
	default:
		if code != 0 {
			require.Fail(t, "no exit was called")
		}
	}
}

// RunWithError runs command and checks that is exits with error.
func (e *executor) RunWithError(t *testing.T, args ...string) {
	ch := setExitFunc()
	require.Error(t, e.run(args...))
	checkExit(t, ch, 1)
}

// Run runs command and checks that there were no errors.
func (e *executor) Run(t *testing.T, args ...string) {
	ch := setExitFunc()
	require.NoError(t, e.run(args...))
	checkExit(t, ch, 0)
}

func (e *executor) run(args ...string) error {
	e.Out.Reset()
	e.Err.Reset()
	input.Terminal = term.NewTerminal(input.ReadWriter{
		Reader: e.In,
		Writer: io.Discard,
	}, "")
	err := e.CLI.Run(args)
	input.Terminal = nil
	e.In.Reset()
	return err
}

// fakeNode is a JSON-RPC node answering a fixed set of methods.
type fakeNode struct {
	srv *httptest.Server

	mtx  sync.Mutex
	sent []*transaction.Transaction
	// reportedHash overrides the hash returned by sendRawTransaction.
	reportedHash string
}

func newFakeNode(t *testing.T) *fakeNode {
	n := new(fakeNode)
	n.srv = httptest.NewServer(http.HandlerFunc(n.serve))
	t.Cleanup(n.srv.Close)
	return n
}

func (n *fakeNode) URL() string {
	return n.srv.URL + "/rpc"
}

func (n *fakeNode) transactions() []*transaction.Transaction {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	return append([]*transaction.Transaction(nil), n.sent...)
}

func (n *fakeNode) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
		ID     uint64            `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	param := func(i int) string {
		var s string
		if i < len(req.Params) {
			_ = json.Unmarshal(req.Params[i], &s)
		}
		return s
	}

	var (
		res  any
		rerr *pharpc.Error
	)
	switch req.Method {
	case "getBlockHeight":
		res = 42
	case "getAccount":
		res = result.Account{
			Address: param(0),
			Name:    "alice",
			Balances: []result.Balance{
				{Chain: "main", Amount: "150000000", Symbol: "SOUL", Decimals: 8},
				{Chain: "main", Amount: "2", Symbol: "CROWN", IDs: []string{"77", "78"}},
			},
		}
	case "getToken":
		if param(0) != "SOUL" {
			rerr = pharpc.NewError(-32000, "token not found", "")
			break
		}
		res = result.Token{Symbol: "SOUL", Name: "Phantasma Stake", Decimals: 8,
			CurrentSupply: "12300000000", MaxSupply: "0", Flags: "Transferable, Fungible"}
	case "getTransaction":
		res = result.Transaction{Hash: param(0), BlockHash: "AB", BlockHeight: 41,
			State: result.Halt, Script: "0D00", Events: []result.Event{
				{Kind: result.TokenReceive, Address: testAddress, Contract: "stake"},
			}}
	case "getNexus":
		res = result.Nexus{Name: "simnet", Protocol: 16, Chains: []result.Chain{{Name: "main", Height: 42}}}
	case "sendRawTransaction":
		raw, err := hex.DecodeString(param(0))
		if err != nil {
			rerr = pharpc.NewError(pharpc.InvalidParamsCode, err.Error(), "")
			break
		}
		tx, err := transaction.NewTransactionFromBytes(raw)
		if err != nil {
			rerr = pharpc.NewError(pharpc.InvalidParamsCode, err.Error(), "")
			break
		}
		n.mtx.Lock()
		n.sent = append(n.sent, tx)
		res = tx.Hash().String()
		if n.reportedHash != "" {
			res = n.reportedHash
		}
		n.mtx.Unlock()
	default:
		rerr = pharpc.NewError(pharpc.MethodNotFoundCode, "method not found", req.Method)
	}

	resp := map[string]any{"jsonrpc": pharpc.JSONRPCVersion, "id": req.ID}
	if rerr != nil {
		resp["error"] = rerr
	} else {
		resp["result"] = res
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// startWallet runs a fake wallet connected to nexus and returns its host.
func startWallet(t *testing.T, nexus string) string {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			_, msg, err := ws.ReadMessage()
			if err != nil {
				return
			}
			idStr, path, _ := strings.Cut(string(msg), ",")
			id, _ := strconv.ParseUint(idStr, 10, 64)
			method, _, _ := strings.Cut(path, "/")
			f := map[string]any{"id": id, "success": true}
			switch method {
			case "authorize":
				f["wallet"], f["token"], f["nexus"] = "Poltergeist", "TKN", nexus
			case "getAccount":
				f["name"], f["address"] = "alice", testAddress
				f["balances"] = []map[string]any{
					{"symbol": "KCAL", "value": "250000000000", "decimals": 10},
					{"symbol": "CROWN", "value": "1", "decimals": 0, "ids": []string{"77"}},
				}
			case "signTx":
				f["hash"] = testTxHash
			case "signData":
				f["signature"], f["random"] = "SIG", "RND"
			default:
				f["success"], f["message"] = false, "unknown request"
			}
			if err := ws.WriteJSON(f); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}
