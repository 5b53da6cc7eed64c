package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/phantasma-io/phantasma-go/pkg/pharpc"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	defaultDialTimeout    = 4 * time.Second
	defaultRequestTimeout = 10 * time.Second
	defaultRetryDelay     = 500 * time.Millisecond
	// DefaultMaxRetries is the number of additional attempts made for a call
	// failing at the transport level.
	DefaultMaxRetries = 3
	// DefaultMaxConcurrentTokenData is the ceiling of in-flight token data
	// requests.
	DefaultMaxConcurrentTokenData = 5
)

// TimeoutMode selects whether a call runs under the client's request
// deadline.
type TimeoutMode byte

const (
	// DefaultTimeout bounds every attempt with Options.RequestTimeout.
	DefaultTimeout TimeoutMode = iota
	// NoTimeout starts no deadline, only the caller's context bounds the call.
	NoTimeout
)

// Client represents the middleman for executing JSON RPC calls
// to remote Phantasma nodes. Client is thread-safe and can be used from
// multiple goroutines, calls carry no ordering guarantee between each other.
type Client struct {
	cli      *http.Client
	endpoint *url.URL
	opts     Options
	log      *zap.Logger
	requestF func(context.Context, *pharpc.Request) (*pharpc.Response, error)

	// tokenGate caps concurrently running token data requests.
	tokenGate *semaphore.Weighted

	latestReqID *atomic.Uint64
	// getNextRequestID returns an ID to be used for the subsequent request creation.
	// It is defined on Client, so that our testing code can override this method
	// for the sake of more predictable request IDs generation behavior.
	getNextRequestID func() uint64
}

// Options defines options for the RPC client.
// All values are optional.
type Options struct {
	DialTimeout time.Duration
	// RequestTimeout is the deadline of a single DefaultTimeout attempt,
	// 10 seconds if not set.
	RequestTimeout time.Duration
	// MaxRetries is the number of additional attempts after a transport
	// failure for all calls but broadcasting. Zero means DefaultMaxRetries,
	// a negative value disables retries.
	MaxRetries int
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
	// BroadcastRetries is the number of additional attempts for
	// SendRawTransaction. It is zero by default since the node is not known
	// to treat resubmission of the same transaction as a no-op.
	BroadcastRetries int
	// MaxConcurrentTokenData is the admission ceiling of GetTokenData, GetNFT
	// and GetNFTs.
	MaxConcurrentTokenData int64
	// Limit total number of connections per host. No limit by default.
	MaxConnsPerHost int
	Logger          *zap.Logger
}

// Call is a single node call description.
type Call struct {
	Method  string
	Params  []any
	Timeout TimeoutMode
	// MaxRetries is the number of additional attempts made after a
	// transport failure or timeout.
	MaxRetries int
}

// New returns a new Client ready to use.
func New(ctx context.Context, endpoint string, opts Options) (*Client, error) {
	cl := new(Client)
	err := initClient(ctx, cl, endpoint, opts)
	if err != nil {
		return nil, err
	}
	return cl, nil
}

func initClient(_ context.Context, cl *Client, endpoint string, opts Options) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}

	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	switch {
	case opts.MaxRetries == 0:
		opts.MaxRetries = DefaultMaxRetries
	case opts.MaxRetries < 0:
		opts.MaxRetries = 0
	}
	if opts.BroadcastRetries < 0 {
		opts.BroadcastRetries = 0
	}
	if opts.MaxConcurrentTokenData <= 0 {
		opts.MaxConcurrentTokenData = DefaultMaxConcurrentTokenData
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	// No http.Client timeout: NoTimeout calls must be able to run for as
	// long as the caller's context allows.
	httpClient := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: opts.DialTimeout,
			}).DialContext,
			MaxConnsPerHost: opts.MaxConnsPerHost,
		},
	}

	cl.cli = httpClient
	cl.endpoint = u
	cl.opts = opts
	cl.log = opts.Logger
	cl.tokenGate = semaphore.NewWeighted(opts.MaxConcurrentTokenData)
	cl.latestReqID = atomic.NewUint64(0)
	cl.getNextRequestID = (cl).getRequestID
	cl.requestF = cl.makeHTTPRequest
	return nil
}

func (c *Client) getRequestID() uint64 {
	return c.latestReqID.Inc()
}

// Endpoint returns the client endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Close closes unused underlying networks connections.
func (c *Client) Close() {
	c.cli.CloseIdleConnections()
}

// Call performs a node call with the timeout and retry policy of call and
// returns the raw result. Transport failures and timeouts are retried up to
// call.MaxRetries times, application errors are returned after a single
// attempt. The error is always a *pharpc.Failure.
func (c *Client) Call(ctx context.Context, call Call) (json.RawMessage, error) {
	if call.Params == nil {
		call.Params = []any{}
	}
	rpcCalls.WithLabelValues(call.Method).Inc()

	var last *pharpc.Failure
	for attempt := 0; attempt <= call.MaxRetries; attempt++ {
		if attempt > 0 {
			rpcRetries.WithLabelValues(call.Method).Inc()
			c.log.Debug("retrying RPC call",
				zap.String("method", call.Method),
				zap.Int("attempt", attempt+1),
				zap.Error(last))
			t := time.NewTimer(c.opts.RetryDelay)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, c.fail(call.Method, last)
			case <-t.C:
			}
		}
		res, f := c.attempt(ctx, call)
		if f == nil {
			return res, nil
		}
		last = f
		if !f.Kind.Retryable() || ctx.Err() != nil {
			break
		}
	}
	return nil, c.fail(call.Method, last)
}

func (c *Client) fail(method string, f *pharpc.Failure) *pharpc.Failure {
	rpcFailures.WithLabelValues(method, f.Kind.String()).Inc()
	c.log.Debug("RPC call failed", zap.String("method", method), zap.Error(f))
	return f
}

func (c *Client) attempt(ctx context.Context, call Call) (json.RawMessage, *pharpc.Failure) {
	actx := ctx
	if call.Timeout == DefaultTimeout {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, c.opts.RequestTimeout)
		defer cancel()
	}
	var r = pharpc.Request{
		JSONRPC: pharpc.JSONRPCVersion,
		Method:  call.Method,
		Params:  call.Params,
		ID:      c.getNextRequestID(),
	}

	raw, err := c.requestF(actx, &r)

	if raw != nil && raw.Error != nil {
		return nil, pharpc.NewFailure(pharpc.KindAPI, raw.Error, "%s", call.Method)
	} else if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, pharpc.NewFailure(pharpc.KindTimeout, err, "%s", call.Method)
		}
		return nil, pharpc.NewFailure(pharpc.KindTransport, err, "%s", call.Method)
	} else if raw == nil || raw.Result == nil {
		return nil, pharpc.NewFailure(pharpc.KindTransport, nil, "%s: no result returned", call.Method)
	} else if isNull(raw.Result) {
		return nil, pharpc.NewFailure(pharpc.KindDecode, nil, "%s: null result", call.Method)
	}
	if e := pharpc.ResultError(raw.Result); e != nil {
		return nil, pharpc.NewFailure(pharpc.KindAPI, e, "%s", call.Method)
	}
	return raw.Result, nil
}

func (c *Client) makeHTTPRequest(ctx context.Context, r *pharpc.Request) (*pharpc.Response, error) {
	var (
		buf = new(bytes.Buffer)
		raw = new(pharpc.Response)
	)

	if err := json.NewEncoder(buf).Encode(r); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The node might send us a proper JSON anyway, so look there first and if
	// it parses, it has more relevant data than HTTP error code.
	err = json.NewDecoder(resp.Body).Decode(raw)
	if err != nil {
		if resp.StatusCode != http.StatusOK {
			err = fmt.Errorf("HTTP %d/%s", resp.StatusCode, http.StatusText(resp.StatusCode))
		} else {
			err = fmt.Errorf("JSON decoding: %w", err)
		}
	} else if raw.Error == nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		err = fmt.Errorf("HTTP %d/%s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Decode unmarshals a raw call result into T. A result of unexpected shape
// is reported as a pharpc.KindDecode failure.
func Decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if isNull(raw) {
		return v, pharpc.NewFailure(pharpc.KindDecode, nil, "null result for %T", v)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, pharpc.NewFailure(pharpc.KindDecode, err, "unexpected result for %T", v)
	}
	return v, nil
}

// CallAs performs call and decodes its result into T.
func CallAs[T any](ctx context.Context, c *Client, call Call) (T, error) {
	raw, err := c.Call(ctx, call)
	if err != nil {
		var v T
		return v, err
	}
	return Decode[T](raw)
}

// performRequest calls method with the default retry count and decodes the
// result into v.
func (c *Client) performRequest(ctx context.Context, method string, mode TimeoutMode, p []any, v any) error {
	return c.performRequestRetries(ctx, method, mode, c.opts.MaxRetries, p, v)
}

func (c *Client) performRequestRetries(ctx context.Context, method string, mode TimeoutMode, retries int, p []any, v any) error {
	raw, err := c.Call(ctx, Call{
		Method:     method,
		Params:     p,
		Timeout:    mode,
		MaxRetries: retries,
	})
	if err != nil {
		return err
	}
	if isNull(raw) {
		return pharpc.NewFailure(pharpc.KindDecode, nil, "%s: null result", method)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return pharpc.NewFailure(pharpc.KindDecode, err, "%s: unexpected result", method)
	}
	return nil
}

// isNull reports whether raw is a JSON null. Unmarshalling it succeeds and
// leaves the target untouched, so it has to be rejected explicitly.
func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ctxFailure converts an admission or wait error into a Failure.
func ctxFailure(method string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return pharpc.NewFailure(pharpc.KindTimeout, err, "%s", method)
	}
	return pharpc.NewFailure(pharpc.KindTransport, err, "%s", method)
}
