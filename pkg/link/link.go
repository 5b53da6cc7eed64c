/*
Package link implements a dapp-side session with a wallet that speaks the
Phantasma Link protocol over a local websocket.

A Session is created with New, connected with Enable and authorized with
Login. Every wallet request is a text frame "{id},{path}" and every reply is
a JSON object carrying the same id. Replies are matched to the waiting
request by id, each request is completed exactly once, requests that get no
reply within Options.RequestTimeout fail with a timeout and everything still
pending at Close is dropped.

By default replies are dispatched by an internal goroutine. With
Options.ManualDispatch the owner has to call DispatchMessageQueue
periodically (for example from its own event loop) for replies to be
delivered.
*/
package link

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phantasma-io/phantasma-go/pkg/crypto/keys"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const (
	// DefaultHost is the address wallets listen on.
	DefaultHost = "localhost:7090"
	// DefaultVersion is the protocol version requested by default.
	DefaultVersion = 2
	// DefaultRequestTimeout is used when Options.RequestTimeout is not set.
	// Wallets wait for user confirmation, so it's long.
	DefaultRequestTimeout = 2 * time.Minute
	// MaxScriptSize is the size limit of a transaction script sent to the
	// wallet.
	MaxScriptSize = 8192
	// MaxSignDataSize is the size limit of data passed to SignData.
	MaxSignDataSize = 1024

	defaultDialTimeout = 5 * time.Second
	minJanitorPeriod   = 10 * time.Millisecond
)

// State is the Session lifecycle state.
type State int32

// Session states.
const (
	Disabled State = iota
	Connecting
	Ready
	Authorizing
	Authorized
	Closed
)

var stateNames = map[State]string{
	Disabled:    "disabled",
	Connecting:  "connecting",
	Ready:       "ready",
	Authorizing: "authorizing",
	Authorized:  "authorized",
	Closed:      "closed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

var (
	// ErrSessionClosed is returned for requests that can't complete because
	// the session was closed or the connection was lost.
	ErrSessionClosed = errors.New("wallet session closed")
	// ErrNotEnabled is returned for requests made before Enable.
	ErrNotEnabled = errors.New("wallet session is not enabled")
	// ErrNotAuthorized is returned for requests that need Login first.
	ErrNotAuthorized = errors.New("wallet session is not authorized")
	// ErrScriptTooBig is returned by SendTransaction for scripts of
	// MaxScriptSize bytes or more.
	ErrScriptTooBig = errors.New("script too big")
	// ErrDataTooBig is returned by SignData for data of MaxSignDataSize
	// bytes or more.
	ErrDataTooBig = errors.New("data too big")
)

// Options are Session settings.
type Options struct {
	// Host is the wallet websocket host:port, DefaultHost if empty.
	Host string
	// DappID identifies the dapp to the wallet.
	DappID string
	// Nexus the wallet must be connected to, checked on Login.
	Nexus string
	// Version of the protocol, DefaultVersion if zero.
	Version int
	// Platform and Signature are the defaults for SendTransaction and
	// SignData, Phantasma and Ed25519 if not set.
	Platform  PlatformKind
	Signature keys.SignatureKind
	// RequestTimeout after which a request with no reply fails.
	RequestTimeout time.Duration
	// ManualDispatch makes replies wait for DispatchMessageQueue.
	ManualDispatch bool
	Dialer         *websocket.Dialer
	Logger         *zap.Logger
}

type pendingRequest struct {
	method string
	sent   time.Time
	cb     func(*response, error)
}

// Session is a connection to a wallet. All methods are safe for concurrent
// use.
type Session struct {
	opts  Options
	log   *zap.Logger
	cache *AccountCache

	mtx     sync.RWMutex
	state   State
	conn    *websocket.Conn
	wallet  string
	token   string
	name    string
	address string

	requests  chan []byte
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	latestReqID *atomic.Uint64
	pendMtx     sync.Mutex
	pending     map[uint64]*pendingRequest

	queueMtx sync.Mutex
	queue    []func()
	queued   chan struct{}
}

// New creates a disabled Session.
func New(opts Options) (*Session, error) {
	if opts.DappID == "" {
		return nil, errors.New("no dapp ID")
	}
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.Version == 0 {
		opts.Version = DefaultVersion
	}
	if opts.Platform == PlatformNone {
		opts.Platform = PlatformPhantasma
	}
	if opts.Signature == keys.None {
		opts.Signature = keys.Ed25519
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.Dialer == nil {
		opts.Dialer = &websocket.Dialer{HandshakeTimeout: defaultDialTimeout}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		opts:        opts,
		log:         log.With(zap.String("dapp", opts.DappID)),
		cache:       NewAccountCache(),
		requests:    make(chan []byte),
		done:        make(chan struct{}),
		latestReqID: atomic.NewUint64(0),
		pending:     make(map[uint64]*pendingRequest),
		queued:      make(chan struct{}, 1),
	}, nil
}

// State returns the current session state.
func (s *Session) State() State {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.state
}

// IsReady reports whether the session is connected.
func (s *Session) IsReady() bool {
	st := s.State()
	return st == Ready || st == Authorizing || st == Authorized
}

// IsAuthorized reports whether Login succeeded and Logout was not called
// since.
func (s *Session) IsAuthorized() bool {
	return s.State() == Authorized
}

// WalletName returns the wallet name reported on Login.
func (s *Session) WalletName() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.wallet
}

// Token returns the authorization token.
func (s *Session) Token() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.token
}

// Nexus returns the configured nexus name.
func (s *Session) Nexus() string {
	return s.opts.Nexus
}

// Name returns the account display name.
func (s *Session) Name() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.name
}

// Address returns the account address.
func (s *Session) Address() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.address
}

// Cache returns the account cache filled by FetchAccount.
func (s *Session) Cache() *AccountCache {
	return s.cache
}

// Close disconnects from the wallet and waits for the session goroutines
// (including the dispatcher running callbacks) to exit. Pending requests and
// undelivered replies are dropped, blocked calls return ErrSessionClosed. The
// session can't be used after Close, and Close must not be called from a
// reply callback.
func (s *Session) Close() {
	s.teardown()
	s.wg.Wait()
}

func (s *Session) teardown() {
	s.closeOnce.Do(func() {
		s.mtx.Lock()
		s.state = Closed
		s.mtx.Unlock()
		close(s.done)

		s.pendMtx.Lock()
		n := len(s.pending)
		s.pending = make(map[uint64]*pendingRequest)
		s.pendMtx.Unlock()
		pendingRequests.Sub(float64(n))
		if n != 0 {
			s.log.Debug("dropped pending wallet requests", zap.Int("count", n))
		}
		if q := s.takeQueue(); len(q) != 0 {
			s.log.Debug("dropped undelivered wallet replies", zap.Int("count", len(q)))
		}
	})
}

func (s *Session) isClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
