package result

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockOptionalFields(t *testing.T) {
	data := `{"hash":"AB","previousHash":"CD","timestamp":1700000000,"height":42,
		"chainAddress":"S3d","protocol":8,"txs":[{"hash":"EF","state":"Halt",
		"events":[{"address":"P2KabC","contract":"gas","kind":"TokenReceive","data":"00"}]}]}`
	var b Block
	require.NoError(t, json.Unmarshal([]byte(data), &b))
	require.EqualValues(t, 42, b.Height)
	require.Nil(t, b.Events)
	require.Len(t, b.Txs, 1)
	require.True(t, b.Txs[0].IsHalted())
	require.True(t, b.Txs[0].Events[0].Is(TokenReceive, "p2kABc"))
	require.False(t, b.Txs[0].Events[0].Is(TokenSend, "P2KabC"))
}

func TestAccountStakesAbsent(t *testing.T) {
	var a Account
	require.NoError(t, json.Unmarshal([]byte(`{"address":"P1","name":"anonymous","balances":[]}`), &a))
	require.Nil(t, a.Stakes)
	require.Nil(t, a.Storage)
	require.NotNil(t, a.Balances)
}

func TestPaginated(t *testing.T) {
	var p Paginated[[]Auction]
	data := `{"page":1,"pageSize":10,"total":11,"totalPages":2,"result":[{"tokenId":"7"}]}`
	require.NoError(t, json.Unmarshal([]byte(data), &p))
	require.True(t, p.HasMore())
	require.Equal(t, "7", p.Result[0].TokenID)
}
