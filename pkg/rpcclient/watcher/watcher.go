/*
Package watcher implements a polling block watcher that reports chain events
concerning a single address, keeping a persisted height watermark so that
every block is processed exactly once across restarts.
*/
package watcher

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/phantasma-io/phantasma-go/pkg/core/storage"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc/result"
	"go.uber.org/zap"
)

const (
	// DefaultPollInterval is used when Config.PollInterval is not set.
	DefaultPollInterval = 5 * time.Second
	// DefaultTokenCacheSize is used when Config.TokenCacheSize is not set.
	DefaultTokenCacheSize = 64
)

type (
	// RPCWatcher is the set of RPC client methods used by the Watcher.
	RPCWatcher interface {
		GetBlockHeight(ctx context.Context, chain string) (uint64, error)
		GetBlockByHeight(ctx context.Context, chain string, height uint64) (*result.Block, error)
		GetToken(ctx context.Context, symbol string) (*result.Token, error)
	}

	// Config is the Watcher configuration.
	Config struct {
		// Chain to watch, "main" if empty.
		Chain string
		// Address whose events are reported. Compared case-insensitively.
		Address string
		// EventKinds to report, TokenReceive only if empty.
		EventKinds   []result.EventKind
		PollInterval time.Duration
		// StartHeight is the last height considered processed when there is
		// no persisted watermark. Zero means the current chain height.
		StartHeight    uint64
		TokenCacheSize int
	}

	// Handler is called for every matching event in block order. A non-nil
	// error stops the current tick and the whole block is retried later.
	Handler func(Match) error

	// Watcher polls a chain for events concerning an address.
	Watcher struct {
		client RPCWatcher
		store  storage.Store
		cfg    Config
		log    *zap.Logger
		kinds  map[result.EventKind]bool
		tokens *lru.Cache
		key    []byte

		started   bool
		watermark uint64
	}
)

// New creates a Watcher. A nil logger disables logging.
func New(client RPCWatcher, store storage.Store, cfg Config, log *zap.Logger) (*Watcher, error) {
	if client == nil {
		return nil, errors.New("nil RPC client")
	}
	if store == nil {
		return nil, errors.New("nil store")
	}
	if cfg.Address == "" {
		return nil, errors.New("no address to watch")
	}
	if cfg.Chain == "" {
		cfg.Chain = "main"
	}
	if len(cfg.EventKinds) == 0 {
		cfg.EventKinds = []result.EventKind{result.TokenReceive}
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.TokenCacheSize <= 0 {
		cfg.TokenCacheSize = DefaultTokenCacheSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	tokens, _ := lru.New(cfg.TokenCacheSize) // Never errors for positive size.
	w := &Watcher{
		client: client,
		store:  store,
		cfg:    cfg,
		log:    log.With(zap.String("chain", cfg.Chain), zap.String("address", cfg.Address)),
		kinds:  make(map[result.EventKind]bool, len(cfg.EventKinds)),
		tokens: tokens,
		key:    watermarkKey(cfg.Chain, cfg.Address),
	}
	for _, k := range cfg.EventKinds {
		w.kinds[k] = true
	}
	return w, nil
}

func watermarkKey(chain, address string) []byte {
	return storage.AppendPrefix(storage.SYSWatermark, []byte(chain+"/"+address))
}

// Watermark returns the last fully processed height. It's only meaningful
// after the first successful Tick.
func (w *Watcher) Watermark() uint64 {
	return w.watermark
}

// Run calls Tick every PollInterval until ctx is done. Tick failures are
// logged and retried on the next interval. Run returns ctx.Err().
func (w *Watcher) Run(ctx context.Context, h Handler) error {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()
	for {
		if err := w.Tick(ctx, h); err != nil && ctx.Err() == nil {
			w.log.Warn("watcher tick failed", zap.Uint64("watermark", w.watermark), zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick processes all blocks above the watermark up to the current chain
// height. It stops at the first failure leaving the watermark at the last
// fully processed block.
func (w *Watcher) Tick(ctx context.Context, h Handler) error {
	height, err := w.client.GetBlockHeight(ctx, w.cfg.Chain)
	if err != nil {
		return fmt.Errorf("failed to get block height: %w", err)
	}
	chainHeight.WithLabelValues(w.cfg.Chain).Set(float64(height))
	if !w.started {
		if err := w.init(height); err != nil {
			return err
		}
	}
	for w.watermark < height {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := w.watermark + 1
		if err := w.processBlock(ctx, next, h); err != nil {
			return fmt.Errorf("block %d: %w", next, err)
		}
		if err := w.persist(next); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) init(height uint64) error {
	v, err := w.store.Get(w.key)
	switch {
	case err == nil:
		if len(v) != 8 {
			return fmt.Errorf("malformed watermark of %d bytes", len(v))
		}
		w.watermark = binary.LittleEndian.Uint64(v)
	case errors.Is(err, storage.ErrKeyNotFound):
		w.watermark = height
		if w.cfg.StartHeight != 0 {
			w.watermark = w.cfg.StartHeight
		}
	default:
		return fmt.Errorf("failed to read watermark: %w", err)
	}
	w.started = true
	w.log.Info("watcher started", zap.Uint64("watermark", w.watermark), zap.Uint64("height", height))
	return nil
}

func (w *Watcher) persist(height uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], height)
	if err := w.store.Put(w.key, buf[:]); err != nil {
		return fmt.Errorf("failed to persist watermark %d: %w", height, err)
	}
	w.watermark = height
	watermarkHeight.WithLabelValues(w.cfg.Chain).Set(float64(height))
	return nil
}

func (w *Watcher) processBlock(ctx context.Context, height uint64, h Handler) error {
	b, err := w.client.GetBlockByHeight(ctx, w.cfg.Chain, height)
	if err != nil {
		return err
	}
	if b == nil {
		return pharpc.NewFailure(pharpc.KindDecode, nil, "no block returned")
	}
	if b.Height != height {
		return pharpc.NewFailure(pharpc.KindDecode, nil, "got block %d", b.Height)
	}
	var matches []Match
	for i := range b.Txs {
		tx := &b.Txs[i]
		if !tx.IsHalted() {
			continue
		}
		for j := range tx.Events {
			ev := tx.Events[j]
			if !w.kinds[ev.Kind] || !ev.Is(ev.Kind, w.cfg.Address) {
				continue
			}
			m, err := w.newMatch(ctx, b, tx, ev)
			if err != nil {
				return err
			}
			matches = append(matches, m)
		}
	}
	for _, m := range matches {
		if err := h(m); err != nil {
			return fmt.Errorf("handler: %w", err)
		}
		matchedEvents.WithLabelValues(string(m.Event.Kind)).Inc()
	}
	return nil
}
