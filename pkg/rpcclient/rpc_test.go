package rpcclient

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/phantasma-io/phantasma-go/pkg/crypto/hash"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc/result"
	"github.com/stretchr/testify/require"
)

type rpcClientTestCase struct {
	name           string
	method         string
	params         string
	serverResponse string
	invoke         func(c *Client) (any, error)
	check          func(t *testing.T, res any)
}

var testHash = hash.Sha256([]byte("archive"))

var rpcClientTestCases = []rpcClientTestCase{
	{
		name:           "getAccounts",
		method:         "getAccounts",
		params:         `["P1,P2"]`,
		serverResponse: `[{"address":"P1","name":"a","balances":[]},{"address":"P2","name":"b","balances":[{"chain":"main","amount":"100","symbol":"SOUL","decimals":8}]}]`,
		invoke: func(c *Client) (any, error) {
			return c.GetAccounts(context.Background(), []string{"P1", "P2"})
		},
		check: func(t *testing.T, res any) {
			accs := res.([]result.Account)
			require.Len(t, accs, 2)
			require.Equal(t, "SOUL", accs[1].Balances[0].Symbol)
		},
	},
	{
		name:           "lookUpName",
		method:         "lookUpName",
		params:         `["genesis"]`,
		serverResponse: `"P2KgenesisAddress"`,
		invoke: func(c *Client) (any, error) {
			return c.LookUpName(context.Background(), "genesis")
		},
		check: func(t *testing.T, res any) {
			require.Equal(t, "P2KgenesisAddress", res)
		},
	},
	{
		name:           "getAuctionsCount",
		method:         "getAuctionsCount",
		params:         `["main","CROWN"]`,
		serverResponse: `"12"`,
		invoke: func(c *Client) (any, error) {
			return c.GetAuctionsCount(context.Background(), "main", "CROWN")
		},
		check: func(t *testing.T, res any) {
			require.Equal(t, 12, res)
		},
	},
	{
		name:           "getAuctions",
		method:         "getAuctions",
		params:         `["main","CROWN",1,10]`,
		serverResponse: `{"page":1,"pageSize":10,"total":1,"totalPages":1,"result":[{"tokenId":"5","price":"100"}]}`,
		invoke: func(c *Client) (any, error) {
			return c.GetAuctions(context.Background(), "main", "CROWN", 1, 10)
		},
		check: func(t *testing.T, res any) {
			p := res.(*result.Paginated[[]result.Auction])
			require.False(t, p.HasMore())
			require.Equal(t, "5", p.Result[0].TokenID)
		},
	},
	{
		name:           "getBlockByHeight",
		method:         "getBlockByHeight",
		params:         `["main","17"]`,
		serverResponse: `{"hash":"AA","height":17,"txs":[]}`,
		invoke: func(c *Client) (any, error) {
			return c.GetBlockByHeight(context.Background(), "main", 17)
		},
		check: func(t *testing.T, res any) {
			require.EqualValues(t, 17, res.(*result.Block).Height)
		},
	},
	{
		name:           "getBlockHeight as number",
		method:         "getBlockHeight",
		params:         `["main"]`,
		serverResponse: `1234`,
		invoke: func(c *Client) (any, error) {
			return c.GetBlockHeight(context.Background(), "main")
		},
		check: func(t *testing.T, res any) {
			require.Equal(t, uint64(1234), res)
		},
	},
	{
		name:           "getContract",
		method:         "getContract",
		params:         `["main","stake"]`,
		serverResponse: `{"name":"stake","address":"S1","script":""}`,
		invoke: func(c *Client) (any, error) {
			return c.GetContract(context.Background(), "stake")
		},
		check: func(t *testing.T, res any) {
			require.Equal(t, "stake", res.(*result.Contract).Name)
		},
	},
	{
		name:           "getNexus",
		method:         "getNexus",
		params:         `[]`,
		serverResponse: `{"name":"testnet","protocol":8,"chains":[{"name":"main","address":"S1","height":10,"contracts":[]}]}`,
		invoke: func(c *Client) (any, error) {
			return c.GetNexus(context.Background())
		},
		check: func(t *testing.T, res any) {
			require.Equal(t, "testnet", res.(*result.Nexus).Name)
		},
	},
	{
		name:           "getTokenBalance default chain",
		method:         "getTokenBalance",
		params:         `["P1","KCAL","main"]`,
		serverResponse: `{"chain":"main","amount":"5","symbol":"KCAL","decimals":10}`,
		invoke: func(c *Client) (any, error) {
			return c.GetTokenBalance(context.Background(), "P1", "KCAL", "")
		},
		check: func(t *testing.T, res any) {
			require.Equal(t, "5", res.(*result.Balance).Amount)
		},
	},
	{
		name:           "getNFTs",
		method:         "getNFTs",
		params:         `["CROWN",["1","2"]]`,
		serverResponse: `[{"ID":"1"},{"ID":"2"}]`,
		invoke: func(c *Client) (any, error) {
			return c.GetNFTs(context.Background(), "CROWN", []string{"1", "2"})
		},
		check: func(t *testing.T, res any) {
			require.Len(t, res.([]result.TokenData), 2)
		},
	},
	{
		name:           "invokeRawScript",
		method:         "invokeRawScript",
		params:         `["main","0D00"]`,
		serverResponse: `{"events":[],"result":"0401"}`,
		invoke: func(c *Client) (any, error) {
			return c.InvokeRawScript(context.Background(), "main", "0D00")
		},
		check: func(t *testing.T, res any) {
			require.Equal(t, "0401", res.(*result.Script).Result)
		},
	},
	{
		name:           "writeArchive",
		method:         "writeArchive",
		params:         `["` + testHash.String() + `",0,"AA"]`,
		serverResponse: `"True"`,
		invoke: func(c *Client) (any, error) {
			return c.WriteArchive(context.Background(), testHash, 0, "AA")
		},
		check: func(t *testing.T, res any) {
			require.Equal(t, true, res)
		},
	},
	{
		name:           "readArchive",
		method:         "readArchive",
		params:         `["` + testHash.String() + `",3]`,
		serverResponse: `"BEEF"`,
		invoke: func(c *Client) (any, error) {
			return c.ReadArchive(context.Background(), testHash, 3)
		},
		check: func(t *testing.T, res any) {
			require.Equal(t, "BEEF", res)
		},
	},
}

func TestRPCClientWrappers(t *testing.T) {
	for _, tc := range rpcClientTestCases {
		t.Run(tc.name, func(t *testing.T) {
			var requests = make(chan *pharpc.Request, 1)
			srv, attempts := initTestServer(t, func(_ int, r *pharpc.Request, w http.ResponseWriter) {
				requests <- r
				writeResult(w, r, tc.serverResponse)
			})
			c := newTestClient(t, srv, Options{})

			res, err := tc.invoke(c)
			require.NoError(t, err)
			require.EqualValues(t, 1, attempts.Load())
			got := <-requests
			require.Equal(t, tc.method, got.Method)
			require.Equal(t, pharpc.JSONRPCVersion, got.JSONRPC)
			params, err := json.Marshal(got.Params)
			require.NoError(t, err)
			require.JSONEq(t, tc.params, string(params))
			tc.check(t, res)
		})
	}
}
