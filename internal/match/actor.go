package match

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

// actionRequest is the envelope the server sends an actor: the kind of
// decision being solicited and the snapshot it should decide against.
type actionRequest struct {
	Type     string          `json:"type"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// actionReply is the single frame an actor must send back in answer to an
// actionRequest.
type actionReply struct {
	Payload json.RawMessage
	Err     error
}

// actorSession is one long-lived WebSocket connection to a remote player
// container. Unlike the teacher's hub-broadcast Client, the protocol here
// is strictly server-initiated request/response, so the session exposes a
// single Ask call instead of a fire-and-forget send channel: the server
// always speaks first and blocks for exactly one reply.
type actorSession struct {
	playerIdx int
	conn      *websocket.Conn
	log       slog.Logger

	send    chan []byte
	replies chan actionReply
	done    chan struct{}
}

func newActorSession(playerIdx int, conn *websocket.Conn, log slog.Logger) *actorSession {
	s := &actorSession{
		playerIdx: playerIdx,
		conn:      conn,
		log:       log,
		send:      make(chan []byte, 1),
		replies:   make(chan actionReply, 1),
		done:      make(chan struct{}),
	}
	go s.writePump()
	go s.readPump()
	return s
}

// Ask sends an ActionRequest of the given type carrying snapshot, and
// blocks for the single reply frame, a context cancellation/timeout, or
// the connection closing.
func (s *actorSession) Ask(ctx context.Context, typ string, snapshot any) (json.RawMessage, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("match: marshal snapshot for player %d: %w", s.playerIdx, err)
	}
	frame, err := json.Marshal(actionRequest{Type: typ, Snapshot: payload})
	if err != nil {
		return nil, fmt.Errorf("match: marshal request for player %d: %w", s.playerIdx, err)
	}

	select {
	case s.send <- frame:
	case <-s.done:
		return nil, fmt.Errorf("match: actor %d session closed", s.playerIdx)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case reply := <-s.replies:
		return reply.Payload, reply.Err
	case <-s.done:
		return nil, fmt.Errorf("match: actor %d session closed", s.playerIdx)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *actorSession) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	_ = s.conn.Close()
}

func (s *actorSession) readPump() {
	defer s.Close()

	s.conn.SetReadLimit(maxMessageSize)
	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case s.replies <- actionReply{Err: fmt.Errorf("match: actor %d read: %w", s.playerIdx, err)}:
			default:
			}
			return
		}
		select {
		case s.replies <- actionReply{Payload: data}:
		default:
			s.log.Warnf("actor %d reply dropped, no pending Ask", s.playerIdx)
		}
	}
}

func (s *actorSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
