package watcher

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/phantasma-io/phantasma-go/pkg/core/storage"
	"github.com/phantasma-io/phantasma-go/pkg/encoding/bigint"
	"github.com/phantasma-io/phantasma-go/pkg/io"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc/result"
	"github.com/phantasma-io/phantasma-go/pkg/rpcclient"
	"github.com/stretchr/testify/require"
)

const testAddress = "P2KEYzWsbrMbPNtW1tBzzDKeYxYi4hjzpx4EfiyRyaoLkMM"

type fakeChain struct {
	mtx       sync.Mutex
	height    uint64
	blocks    map[uint64]*result.Block
	failAt    map[uint64]int
	fetched   []uint64
	tokens    map[string]int
	tokenErr  error
	tokenHits int
}

func newFakeChain(height uint64) *fakeChain {
	return &fakeChain{
		height: height,
		blocks: make(map[uint64]*result.Block),
		failAt: make(map[uint64]int),
		tokens: map[string]int{"SOUL": 8, "KCAL": 10},
	}
}

func (f *fakeChain) GetBlockHeight(context.Context, string) (uint64, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.height, nil
}

func (f *fakeChain) GetBlockByHeight(_ context.Context, _ string, height uint64) (*result.Block, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.fetched = append(f.fetched, height)
	if f.failAt[height] > 0 {
		f.failAt[height]--
		return nil, pharpc.NewFailure(pharpc.KindTransport, nil, "connection reset")
	}
	if b, ok := f.blocks[height]; ok {
		return b, nil
	}
	return &result.Block{Height: height, Hash: "EMPTY"}, nil
}

func (f *fakeChain) GetToken(_ context.Context, symbol string) (*result.Token, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.tokenHits++
	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	d, ok := f.tokens[symbol]
	if !ok {
		return nil, pharpc.NewFailure(pharpc.KindAPI, nil, "token not found")
	}
	return &result.Token{Symbol: symbol, Decimals: d}, nil
}

func tokenEventData(t *testing.T, symbol string, value int64, chain string) string {
	bw := io.NewBufBinWriter()
	bw.WriteString(symbol)
	bw.WriteVarBytes(bigint.ToBytes(big.NewInt(value)))
	bw.WriteString(chain)
	require.NoError(t, bw.Err)
	return hex.EncodeToString(bw.Bytes())
}

func receiveTx(t *testing.T, hash string, state result.ExecutionState, addr string, symbol string, value int64) result.Transaction {
	return result.Transaction{
		Hash:  hash,
		State: state,
		Events: []result.Event{{
			Address:  addr,
			Contract: "stake",
			Kind:     result.TokenReceive,
			Data:     tokenEventData(t, symbol, value, "main"),
		}},
	}
}

func newTestWatcher(t *testing.T, chain *fakeChain, store storage.Store, cfg Config) *Watcher {
	if cfg.Address == "" {
		cfg.Address = testAddress
	}
	w, err := New(chain, store, cfg, nil)
	require.NoError(t, err)
	return w
}

func collect(ms *[]Match) Handler {
	return func(m Match) error {
		*ms = append(*ms, m)
		return nil
	}
}

func TestNew(t *testing.T) {
	_, err := New(nil, storage.NewMemoryStore(), Config{Address: testAddress}, nil)
	require.Error(t, err)
	_, err = New(newFakeChain(0), nil, Config{Address: testAddress}, nil)
	require.Error(t, err)
	_, err = New(newFakeChain(0), storage.NewMemoryStore(), Config{}, nil)
	require.Error(t, err)

	w, err := New(newFakeChain(0), storage.NewMemoryStore(), Config{Address: testAddress}, nil)
	require.NoError(t, err)
	require.Equal(t, "main", w.cfg.Chain)
	require.Equal(t, DefaultPollInterval, w.cfg.PollInterval)
	require.True(t, w.kinds[result.TokenReceive])
}

func TestDecodeTokenEvent(t *testing.T) {
	te, err := DecodeTokenEvent(tokenEventData(t, "SOUL", 150000000, "main"))
	require.NoError(t, err)
	require.Equal(t, "SOUL", te.Symbol)
	require.Equal(t, "150000000", te.Value.String())
	require.Equal(t, "main", te.ChainName)

	_, err = DecodeTokenEvent("zz")
	require.Error(t, err)
	_, err = DecodeTokenEvent("04534f")
	require.Error(t, err)
	_, err = DecodeTokenEvent(tokenEventData(t, "", 1, "main"))
	require.Error(t, err)
}

func TestTickStartsAtCurrentHeight(t *testing.T) {
	chain := newFakeChain(100)
	w := newTestWatcher(t, chain, storage.NewMemoryStore(), Config{})

	var ms []Match
	require.NoError(t, w.Tick(context.Background(), collect(&ms)))
	require.Empty(t, chain.fetched)
	require.EqualValues(t, 100, w.Watermark())

	chain.height = 102
	require.NoError(t, w.Tick(context.Background(), collect(&ms)))
	require.Equal(t, []uint64{101, 102}, chain.fetched)
	require.EqualValues(t, 102, w.Watermark())
}

func TestTickMatches(t *testing.T) {
	chain := newFakeChain(3)
	chain.blocks[2] = &result.Block{
		Height: 2,
		Hash:   "B2",
		Txs: []result.Transaction{
			receiveTx(t, "T1", result.Halt, strings.ToLower(testAddress), "SOUL", 150000000),
			receiveTx(t, "T2", result.Fault, testAddress, "SOUL", 1),
			receiveTx(t, "T3", result.Halt, "P2KOther", "SOUL", 1),
			{
				Hash:  "T4",
				State: result.Halt,
				Events: []result.Event{
					{Address: testAddress, Kind: result.TokenSend, Data: tokenEventData(t, "KCAL", 5, "main")},
					{Address: testAddress, Kind: result.TokenReceive, Data: tokenEventData(t, "KCAL", 25000000000, "main")},
				},
			},
		},
	}
	w := newTestWatcher(t, chain, storage.NewMemoryStore(), Config{StartHeight: 1})

	var ms []Match
	require.NoError(t, w.Tick(context.Background(), collect(&ms)))
	require.Len(t, ms, 2)

	require.Equal(t, "T1", ms[0].TxHash)
	require.Equal(t, "B2", ms[0].BlockHash)
	require.EqualValues(t, 2, ms[0].Height)
	require.NotNil(t, ms[0].Token)
	require.Equal(t, "SOUL", ms[0].Token.Symbol)
	require.Equal(t, 8, ms[0].Token.Decimals)
	require.Equal(t, "1.5", ms[0].Token.Amount.String())

	require.Equal(t, "T4", ms[1].TxHash)
	require.Equal(t, "KCAL", ms[1].Token.Symbol)
	require.Equal(t, "2.5", ms[1].Token.Amount.String())
	require.EqualValues(t, 3, w.Watermark())
}

func TestTickRetriesFailedHeight(t *testing.T) {
	chain := newFakeChain(3)
	chain.failAt[2] = 1
	store := storage.NewMemoryStore()
	w := newTestWatcher(t, chain, store, Config{StartHeight: 1})

	var ms []Match
	err := w.Tick(context.Background(), collect(&ms))
	require.ErrorIs(t, err, pharpc.ErrTransport)
	require.EqualValues(t, 1, w.Watermark())

	require.NoError(t, w.Tick(context.Background(), collect(&ms)))
	require.Equal(t, []uint64{2, 2, 3}, chain.fetched)
	require.EqualValues(t, 3, w.Watermark())
}

func TestTickHandlerFailure(t *testing.T) {
	chain := newFakeChain(2)
	chain.blocks[2] = &result.Block{Height: 2, Txs: []result.Transaction{
		receiveTx(t, "T1", result.Halt, testAddress, "SOUL", 1),
	}}
	w := newTestWatcher(t, chain, storage.NewMemoryStore(), Config{StartHeight: 1})

	var calls int
	fail := func(Match) error {
		calls++
		return errors.New("db is down")
	}
	require.Error(t, w.Tick(context.Background(), fail))
	require.EqualValues(t, 1, w.Watermark())

	var ms []Match
	require.NoError(t, w.Tick(context.Background(), collect(&ms)))
	require.Equal(t, 1, calls)
	require.Len(t, ms, 1)
	require.EqualValues(t, 2, w.Watermark())
}

func TestTickNullBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r := new(pharpc.Request)
		require.NoError(t, json.NewDecoder(req.Body).Decode(r))
		res := `null`
		if r.Method == "getBlockHeight" {
			res = `"11"`
		}
		_, _ = fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":%s}`, r.ID, res)
	}))
	t.Cleanup(srv.Close)
	c, err := rpcclient.New(context.Background(), srv.URL, rpcclient.Options{})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	store := storage.NewMemoryStore()
	w, err := New(c, store, Config{Address: testAddress, StartHeight: 10}, nil)
	require.NoError(t, err)

	err = w.Tick(context.Background(), collect(new([]Match)))
	require.ErrorIs(t, err, pharpc.ErrDecode)
	require.EqualValues(t, 10, w.Watermark())
	_, err = store.Get(watermarkKey("main", testAddress))
	require.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestTickWrongBlock(t *testing.T) {
	chain := newFakeChain(2)
	chain.blocks[2] = &result.Block{Height: 7}
	w := newTestWatcher(t, chain, storage.NewMemoryStore(), Config{StartHeight: 1})
	require.ErrorIs(t, w.Tick(context.Background(), collect(new([]Match))), pharpc.ErrDecode)
	require.EqualValues(t, 1, w.Watermark())

	chain.blocks[2] = nil
	require.ErrorIs(t, w.Tick(context.Background(), collect(new([]Match))), pharpc.ErrDecode)
	require.EqualValues(t, 1, w.Watermark())
}

func TestTokenDecimalsNotCachedOnDecodeFailure(t *testing.T) {
	chain := newFakeChain(0)
	chain.tokenErr = pharpc.NewFailure(pharpc.KindDecode, nil, "getToken: null result")
	w := newTestWatcher(t, chain, storage.NewMemoryStore(), Config{})
	d, err := w.tokenDecimals(context.Background(), "SOUL")
	require.NoError(t, err)
	require.Equal(t, 0, d)

	chain.tokenErr = nil
	d, err = w.tokenDecimals(context.Background(), "SOUL")
	require.NoError(t, err)
	require.Equal(t, 8, d)
	require.Equal(t, 2, chain.tokenHits)
}

func TestWatermarkPersisted(t *testing.T) {
	chain := newFakeChain(5)
	store := storage.NewMemoryStore()
	w := newTestWatcher(t, chain, store, Config{StartHeight: 3})
	require.NoError(t, w.Tick(context.Background(), collect(new([]Match))))

	v, err := store.Get(watermarkKey("main", testAddress))
	require.NoError(t, err)
	require.EqualValues(t, 5, binary.LittleEndian.Uint64(v))

	// A new watcher resumes from the stored height, not from StartHeight.
	chain.height = 6
	chain.fetched = nil
	w = newTestWatcher(t, chain, store, Config{StartHeight: 1})
	require.NoError(t, w.Tick(context.Background(), collect(new([]Match))))
	require.Equal(t, []uint64{6}, chain.fetched)
}

func TestMalformedWatermark(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put(watermarkKey("main", testAddress), []byte{1, 2}))
	w := newTestWatcher(t, newFakeChain(5), store, Config{})
	require.Error(t, w.Tick(context.Background(), collect(new([]Match))))
}

func TestTokenDecimals(t *testing.T) {
	t.Run("cached", func(t *testing.T) {
		chain := newFakeChain(0)
		w := newTestWatcher(t, chain, storage.NewMemoryStore(), Config{})
		for i := 0; i < 3; i++ {
			d, err := w.tokenDecimals(context.Background(), "SOUL")
			require.NoError(t, err)
			require.Equal(t, 8, d)
		}
		require.Equal(t, 1, chain.tokenHits)
	})
	t.Run("unknown token falls back to zero", func(t *testing.T) {
		chain := newFakeChain(0)
		w := newTestWatcher(t, chain, storage.NewMemoryStore(), Config{})
		d, err := w.tokenDecimals(context.Background(), "NOPE")
		require.NoError(t, err)
		require.Equal(t, 0, d)
	})
	t.Run("transport failure is returned", func(t *testing.T) {
		chain := newFakeChain(0)
		chain.tokenErr = pharpc.NewFailure(pharpc.KindTimeout, nil, "slow node")
		w := newTestWatcher(t, chain, storage.NewMemoryStore(), Config{})
		_, err := w.tokenDecimals(context.Background(), "SOUL")
		require.ErrorIs(t, err, pharpc.ErrTimeout)
	})
}

func TestUndecodableTokenData(t *testing.T) {
	chain := newFakeChain(2)
	chain.blocks[2] = &result.Block{Height: 2, Txs: []result.Transaction{{
		Hash:   "T1",
		State:  result.Halt,
		Events: []result.Event{{Address: testAddress, Kind: result.TokenReceive, Data: "zz"}},
	}}}
	w := newTestWatcher(t, chain, storage.NewMemoryStore(), Config{StartHeight: 1})
	var ms []Match
	require.NoError(t, w.Tick(context.Background(), collect(&ms)))
	require.Len(t, ms, 1)
	require.Nil(t, ms[0].Token)
}

func TestRunStopsOnCancel(t *testing.T) {
	chain := newFakeChain(1)
	w := newTestWatcher(t, chain, storage.NewMemoryStore(), Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, w.Run(ctx, collect(new([]Match))), context.Canceled)
}
