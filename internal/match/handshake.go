package match

import (
	"net/http"
	"sync"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// binder accepts inbound WebSocket connections and binds each to a player
// index once its first text frame matches one of the match's secrets.
// First claim wins per index; a duplicate claim or an unrecognized secret
// is logged and the connection dropped, per spec.md §4.2's handshake rule.
type binder struct {
	secrets []string
	log     slog.Logger

	mu     sync.Mutex
	bound  []*actorSession
	ready  chan struct{}
	closed bool
}

func newBinder(secrets []string, log slog.Logger) *binder {
	return &binder{
		secrets: secrets,
		log:     log,
		bound:   make([]*actorSession, len(secrets)),
		ready:   make(chan struct{}),
	}
}

// ServeHTTP upgrades the connection, reads the handshake frame, and binds
// the session to its player slot.
func (b *binder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Errorf("websocket upgrade failed: %v", err)
		return
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		b.log.Errorf("handshake read failed: %v", err)
		_ = conn.Close()
		return
	}
	secret := string(data)

	idx := -1
	for i, s := range b.secrets {
		if s == secret {
			idx = i
			break
		}
	}
	if idx == -1 {
		b.log.Warnf("handshake secret did not match any player")
		_ = conn.Close()
		return
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		_ = conn.Close()
		return
	}
	if b.bound[idx] != nil {
		b.mu.Unlock()
		b.log.Warnf("duplicate claim for player %d rejected", idx)
		_ = conn.Close()
		return
	}
	session := newActorSession(idx, conn, b.log)
	b.bound[idx] = session

	allBound := true
	for _, s := range b.bound {
		if s == nil {
			allBound = false
			break
		}
	}
	b.mu.Unlock()

	if allBound {
		close(b.ready)
	}
}

// Wait blocks until every player index has bound, then returns the bound
// sessions in player-index order.
func (b *binder) Wait() []*actorSession {
	<-b.ready
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*actorSession, len(b.bound))
	copy(out, b.bound)
	return out
}
