package link

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/phantasma-io/phantasma-go/pkg/crypto/hash"
	"github.com/phantasma-io/phantasma-go/pkg/crypto/keys"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc"
	"go.uber.org/zap"
)

// SignedData is the result of SignData.
type SignedData struct {
	Signature string
	Random    string
	// Data is the uppercase hex of the signed bytes.
	Data string
}

type requestOptions struct {
	platform  PlatformKind
	signature keys.SignatureKind
}

// RequestOption overrides session defaults for a single request.
type RequestOption func(*requestOptions)

// WithPlatform sets the platform to sign for.
func WithPlatform(p PlatformKind) RequestOption {
	return func(o *requestOptions) { o.platform = p }
}

// WithSignature sets the signature kind to use.
func WithSignature(k keys.SignatureKind) RequestOption {
	return func(o *requestOptions) { o.signature = k }
}

func (s *Session) requestOptions(opts []RequestOption) requestOptions {
	o := requestOptions{platform: s.opts.Platform, signature: s.opts.Signature}
	for _, f := range opts {
		f(&o)
	}
	return o
}

func upperHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// Login authorizes the dapp in the wallet and fetches the account. It
// succeeds immediately if the session is already authorized. The wallet
// must be connected to the configured nexus, ErrNetworkMismatch is returned
// otherwise and the session stays unauthorized.
func (s *Session) Login(ctx context.Context) error {
	if s.opts.Nexus == "" {
		return errors.New("nexus is not configured")
	}
	s.mtx.Lock()
	switch s.state {
	case Authorized:
		s.mtx.Unlock()
		return nil
	case Ready:
		s.state = Authorizing
	case Authorizing:
		s.mtx.Unlock()
		return errors.New("login is already in progress")
	case Closed:
		s.mtx.Unlock()
		return ErrSessionClosed
	default:
		s.mtx.Unlock()
		return ErrNotEnabled
	}
	s.mtx.Unlock()

	if err := s.authorize(ctx); err != nil {
		s.deauthorize()
		s.log.Warn("wallet login failed", zap.Error(err))
		return err
	}
	s.log.Info("logged in", zap.String("wallet", s.WalletName()), zap.String("address", s.Address()))
	return nil
}

func (s *Session) authorize(ctx context.Context) error {
	r, err := s.call(ctx, fmt.Sprintf("authorize/%s/%d", s.opts.DappID, s.opts.Version))
	if err != nil {
		return err
	}
	if !r.succeeded() {
		return pharpc.NewFailure(pharpc.KindAPI, nil, "connection failed (or rejected)")
	}
	nexus, err := required("authorize", "nexus", r.Nexus)
	if err != nil {
		return err
	}
	if nexus != s.opts.Nexus {
		return pharpc.NewFailure(pharpc.KindNetworkMismatch, nil, "invalid nexus: got %s but expected %s", nexus, s.opts.Nexus)
	}
	token, err := required("authorize", "token", r.Token)
	if err != nil {
		return err
	}
	wallet := str(r.Wallet)
	if wallet == "" {
		wallet = "Unknown"
	}

	s.mtx.Lock()
	if s.state != Authorizing {
		s.mtx.Unlock()
		return ErrSessionClosed
	}
	s.wallet = wallet
	s.token = token
	s.state = Authorized
	s.mtx.Unlock()

	_, err = s.FetchAccount(ctx)
	return err
}

// deauthorize drops authorization data and the account cache.
func (s *Session) deauthorize() {
	s.mtx.Lock()
	s.wallet = ""
	s.token = ""
	s.name = ""
	s.address = ""
	if s.state == Authorized || s.state == Authorizing {
		s.state = Ready
	}
	s.mtx.Unlock()
	s.cache.Clear()
}

// Logout forgets the authorization and the account. The connection stays
// open, Login can be repeated.
func (s *Session) Logout() {
	s.deauthorize()
}

func (s *Session) checkAuthorized() error {
	switch s.State() {
	case Authorized:
		return nil
	case Closed:
		return ErrSessionClosed
	case Disabled, Connecting:
		return ErrNotEnabled
	default:
		return ErrNotAuthorized
	}
}

// FetchAccount requests the account from the wallet and replaces the cache
// with it.
func (s *Session) FetchAccount(ctx context.Context) (*AccountSnapshot, error) {
	if err := s.checkAuthorized(); err != nil {
		return nil, err
	}
	r, err := s.call(ctx, "getAccount/"+s.opts.Platform.String())
	if err != nil {
		return nil, err
	}
	if !r.succeeded() {
		return nil, pharpc.NewFailure(pharpc.KindAPI, nil, "could not obtain account")
	}
	snap, err := r.snapshot()
	if err != nil {
		return nil, err
	}
	s.mtx.Lock()
	s.name = snap.DisplayName
	s.address = snap.Address
	s.mtx.Unlock()
	s.cache.Replace(snap)
	return snap, nil
}

// ReloadAccount is FetchAccount.
func (s *Session) ReloadAccount(ctx context.Context) (*AccountSnapshot, error) {
	return s.FetchAccount(ctx)
}

// SendTransaction asks the wallet to sign and broadcast a transaction with
// the given script and payload on chain. It returns the transaction hash
// reported by the wallet.
func (s *Session) SendTransaction(ctx context.Context, chain string, script, payload []byte, opts ...RequestOption) (hash.Hash, error) {
	if len(script) >= MaxScriptSize {
		return hash.Hash{}, ErrScriptTooBig
	}
	if err := s.checkAuthorized(); err != nil {
		return hash.Hash{}, err
	}
	o := s.requestOptions(opts)
	req := fmt.Sprintf("%s/%s/%s", chain, upperHex(script), upperHex(payload))
	if s.opts.Version >= 2 {
		req = fmt.Sprintf("%s/%s/%s", req, o.signature, o.platform)
	} else {
		req = s.opts.Nexus + "/" + req
	}
	r, err := s.call(ctx, "signTx/"+req)
	if err != nil {
		return hash.Hash{}, err
	}
	if !r.succeeded() {
		return hash.Hash{}, pharpc.NewFailure(pharpc.KindAPI, nil, "transaction rejected: %s", r.message())
	}
	hs, err := required("signTx", "hash", r.Hash)
	if err != nil {
		return hash.Hash{}, err
	}
	h, err := hash.Parse(hs)
	if err != nil {
		return hash.Hash{}, pharpc.NewFailure(pharpc.KindDecode, err, "signTx: bad hash %q", hs)
	}
	return h, nil
}

// SignData asks the wallet to sign arbitrary data with the account key.
func (s *Session) SignData(ctx context.Context, data []byte, opts ...RequestOption) (*SignedData, error) {
	switch s.State() {
	case Disabled, Connecting:
		return nil, ErrNotEnabled
	case Closed:
		return nil, ErrSessionClosed
	}
	if len(data) >= MaxSignDataSize {
		return nil, ErrDataTooBig
	}
	o := s.requestOptions(opts)
	hexData := upperHex(data)
	r, err := s.call(ctx, fmt.Sprintf("signData/%s/%s/%s", hexData, o.signature, o.platform))
	if err != nil {
		return nil, err
	}
	if !r.succeeded() {
		return nil, pharpc.NewFailure(pharpc.KindAPI, nil, "failed to sign data: %s", r.message())
	}
	sig, err := required("signData", "signature", r.Signature)
	if err != nil {
		return nil, err
	}
	random, err := required("signData", "random", r.Random)
	if err != nil {
		return nil, err
	}
	return &SignedData{Signature: sig, Random: random, Data: hexData}, nil
}
