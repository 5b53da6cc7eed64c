package link

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/phantasma-io/phantasma-go/pkg/pharpc"
	"go.uber.org/zap"
)

const (
	// Message limit for receiving side.
	wsReadLimit = 1024 * 1024

	// Disconnection timeout.
	wsPongLimit = 60 * time.Second

	// Ping period for connection liveness check.
	wsPingPeriod = wsPongLimit / 2

	// Write deadline.
	wsWriteLimit = wsPingPeriod / 2
)

// Enable connects to the wallet. It does nothing if the session is already
// enabled. A failed connection closes the session.
func (s *Session) Enable(ctx context.Context) error {
	s.mtx.Lock()
	switch s.state {
	case Disabled:
		s.state = Connecting
	case Closed:
		s.mtx.Unlock()
		return ErrSessionClosed
	default:
		s.mtx.Unlock()
		return nil
	}
	s.mtx.Unlock()

	endpoint := "ws://" + s.opts.Host + "/phantasma"
	conn, _, err := s.opts.Dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		s.teardown()
		return pharpc.NewFailure(pharpc.KindTransport, err, "can't connect to wallet at %s", endpoint)
	}

	s.mtx.Lock()
	if s.state != Connecting {
		s.mtx.Unlock()
		_ = conn.Close()
		return ErrSessionClosed
	}
	s.conn = conn
	s.state = Ready
	s.wg.Add(3)
	if !s.opts.ManualDispatch {
		s.wg.Add(1)
	}
	s.mtx.Unlock()

	go s.wsReader()
	go s.wsWriter()
	go s.janitor()
	if !s.opts.ManualDispatch {
		go s.dispatcher()
	}
	s.log.Info("connected to wallet", zap.String("endpoint", endpoint))
	return nil
}

func (s *Session) wsReader() {
	defer s.wg.Done()
	s.conn.SetReadLimit(wsReadLimit)
	s.conn.SetPongHandler(func(string) error { return s.conn.SetReadDeadline(time.Now().Add(wsPongLimit)) })
	for {
		_ = s.conn.SetReadDeadline(time.Now().Add(wsPongLimit))
		_, frame, err := s.conn.ReadMessage()
		if err != nil {
			if !s.isClosed() {
				s.log.Warn("wallet connection lost", zap.Error(err))
			}
			break
		}
		s.enqueue(func() { s.handleFrame(frame) })
	}
	s.teardown()
}

func (s *Session) wsWriter() {
	defer s.wg.Done()
	pingTicker := time.NewTicker(wsPingPeriod)
	defer s.conn.Close()
	defer pingTicker.Stop()
	for {
		select {
		case <-s.done:
			return
		case frame := <-s.requests:
			_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteLimit))
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.log.Warn("failed to send wallet request", zap.Error(err))
				s.teardown()
				return
			}
		case <-pingTicker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteLimit))
			if err := s.conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				s.teardown()
				return
			}
		}
	}
}

// janitor evicts requests that got no reply within RequestTimeout.
func (s *Session) janitor() {
	defer s.wg.Done()
	period := s.opts.RequestTimeout / 4
	if period < minJanitorPeriod {
		period = minJanitorPeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.evict(now)
		}
	}
}

func (s *Session) evict(now time.Time) {
	var expired []*pendingRequest
	s.pendMtx.Lock()
	for id, p := range s.pending {
		if now.Sub(p.sent) >= s.opts.RequestTimeout {
			delete(s.pending, id)
			expired = append(expired, p)
		}
	}
	s.pendMtx.Unlock()
	for _, p := range expired {
		p := p
		pendingRequests.Dec()
		evictedRequests.WithLabelValues(p.method).Inc()
		s.log.Debug("wallet request timed out", zap.String("method", p.method))
		err := pharpc.NewFailure(pharpc.KindTimeout, nil, "no reply to %s in %s", p.method, s.opts.RequestTimeout)
		s.enqueue(func() { p.cb(nil, err) })
	}
}

// enqueue adds f to the dispatch queue, it's dropped once the session is
// closed.
func (s *Session) enqueue(f func()) {
	s.queueMtx.Lock()
	if s.isClosed() {
		s.queueMtx.Unlock()
		return
	}
	s.queue = append(s.queue, f)
	s.queueMtx.Unlock()
	select {
	case s.queued <- struct{}{}:
	default:
	}
}

func (s *Session) takeQueue() []func() {
	s.queueMtx.Lock()
	defer s.queueMtx.Unlock()
	q := s.queue
	s.queue = nil
	return q
}

// DispatchMessageQueue delivers replies received (and timeouts detected)
// before the call, it returns the number of delivered items. Use it with
// Options.ManualDispatch, otherwise it only competes with the internal
// dispatcher. Nothing is delivered after Close.
func (s *Session) DispatchMessageQueue() int {
	if s.isClosed() {
		return 0
	}
	q := s.takeQueue()
	for _, f := range q {
		f()
	}
	return len(q)
}

func (s *Session) dispatcher() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case <-s.queued:
			s.DispatchMessageQueue()
		}
	}
}

func (s *Session) handleFrame(frame []byte) {
	r, err := decodeResponse(frame)
	if err != nil {
		unmatchedResponses.Inc()
		s.log.Warn("malformed wallet message", zap.ByteString("frame", frame), zap.Error(err))
		return
	}
	p := s.take(*r.ID)
	if p == nil {
		unmatchedResponses.Inc()
		s.log.Warn("wallet reply to unknown request", zap.Uint64("id", *r.ID))
		return
	}
	p.cb(r, nil)
}

// take removes the pending request with id, it returns nil if there is none.
func (s *Session) take(id uint64) *pendingRequest {
	s.pendMtx.Lock()
	p, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	s.pendMtx.Unlock()
	if !ok {
		return nil
	}
	pendingRequests.Dec()
	return p
}

func requestMethod(path string) string {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

// request sends path to the wallet, cb is called once with the reply or a
// timeout failure. It's never called if the session is closed first.
func (s *Session) request(path string, cb func(*response, error)) (uint64, error) {
	s.mtx.RLock()
	state, token := s.state, s.token
	s.mtx.RUnlock()
	switch state {
	case Closed:
		return 0, ErrSessionClosed
	case Disabled, Connecting:
		return 0, ErrNotEnabled
	}

	method := requestMethod(path)
	s.log.Debug("sending wallet request", zap.String("request", path))
	if token != "" && method != "authorize" {
		path = path + "/" + s.opts.DappID + "/" + token
	}
	id := s.latestReqID.Inc()
	frame := []byte(strconv.FormatUint(id, 10) + "," + path)

	s.pendMtx.Lock()
	if s.isClosed() {
		s.pendMtx.Unlock()
		return 0, ErrSessionClosed
	}
	s.pending[id] = &pendingRequest{method: method, sent: time.Now(), cb: cb}
	s.pendMtx.Unlock()
	pendingRequests.Inc()
	linkRequests.WithLabelValues(method).Inc()

	select {
	case s.requests <- frame:
		return id, nil
	case <-s.done:
		return 0, ErrSessionClosed
	}
}

type reply struct {
	r   *response
	err error
}

// call is a blocking request.
func (s *Session) call(ctx context.Context, path string) (*response, error) {
	ch := make(chan reply, 1)
	id, err := s.request(path, func(r *response, err error) {
		ch <- reply{r: r, err: err}
	})
	if err != nil {
		return nil, err
	}
	select {
	case rep := <-ch:
		return rep.r, rep.err
	case <-s.done:
		select {
		case rep := <-ch:
			return rep.r, rep.err
		default:
		}
		return nil, ErrSessionClosed
	case <-ctx.Done():
		s.take(id)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, pharpc.NewFailure(pharpc.KindTimeout, ctx.Err(), "%s", requestMethod(path))
		}
		return nil, ctx.Err()
	}
}
