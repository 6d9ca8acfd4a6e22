package match

import (
	"sync"

	"github.com/lightsing/splendor/internal/rules"
)

// ReplayLog is an in-memory, append-only history of a match's Records,
// grounded on the teacher's ReplayManager/ReplaySession shape: a manager
// owns sessions and sessions only ever grow. Unlike the teacher, which
// parses an external transcript file, this log captures records live as
// the rules engine produces them, and fans them out to subscribers as they
// arrive (SHOULD streamable per the match-server design).
type ReplayLog struct {
	mu      sync.Mutex
	records []rules.Record
	subs    []chan rules.Record
}

func NewReplayLog() *ReplayLog {
	return &ReplayLog{}
}

// Append records one more entry and notifies any live subscribers. Slow or
// disconnected subscribers are dropped silently rather than blocking the
// match loop.
func (l *ReplayLog) Append(r rules.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
	for _, ch := range l.subs {
		select {
		case ch <- r:
		default:
		}
	}
}

// Snapshot returns a full, independent copy of the log so far.
func (l *ReplayLog) Snapshot() []rules.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]rules.Record, len(l.records))
	copy(out, l.records)
	return out
}

// Subscribe registers a channel that receives every Record appended from
// this point on. Callers must drain it promptly; Unsubscribe removes it.
func (l *ReplayLog) Subscribe() chan rules.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch := make(chan rules.Record, 64)
	l.subs = append(l.subs, ch)
	return ch
}

func (l *ReplayLog) Unsubscribe(ch chan rules.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, s := range l.subs {
		if s == ch {
			l.subs = append(l.subs[:i], l.subs[i+1:]...)
			close(ch)
			return
		}
	}
}
