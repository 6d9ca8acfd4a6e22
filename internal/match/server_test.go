package match

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"
	"github.com/lightsing/splendor/internal/rules"
	"github.com/lightsing/splendor/internal/supervisor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

type fakeSupervisorClient struct {
	reportedReason supervisor.EndReason
	reportedWins   []int
}

func (f *fakeSupervisorClient) ReportGameEnds(_ context.Context, in *supervisor.ReportGameEndsRequest, _ ...grpc.CallOption) (*supervisor.ReportGameEndsResponse, error) {
	f.reportedReason = in.Reason
	f.reportedWins = in.Winners
	return &supervisor.ReportGameEndsResponse{}, nil
}

func (f *fakeSupervisorClient) PreparePlayerChange(_ context.Context, _ *supervisor.PreparePlayerChangeRequest, _ ...grpc.CallOption) (*supervisor.PreparePlayerChangeResponse, error) {
	return &supervisor.PreparePlayerChangeResponse{}, nil
}

func TestHideForRevealsOwnReservedCardsOnly(t *testing.T) {
	seed := uint64(7)
	srv := New(Config{NPlayers: 2, Seed: &seed}, &fakeSupervisorClient{}, newTestMetrics(), slog.Disabled)

	idx := 0
	action := rules.NewReserveCardAction(rules.ReserveCardAction{Tier: rules.TierI, Idx: &idx})
	require.NoError(t, srv.game.ValidateMain(action))
	srv.game.ApplyMain(action)
	blind := rules.NewReserveCardAction(rules.ReserveCardAction{Tier: rules.TierII})
	srv.game.Current = 1
	require.NoError(t, srv.game.ValidateMain(blind))
	srv.game.ApplyMain(blind)

	snapForOwner := srv.hideFor(srv.game.Snapshot(), 1)
	assert.True(t, snapForOwner.Players[1].ReservedCards[0].Visible)

	snapForOpponent := srv.hideFor(srv.game.Snapshot(), 0)
	assert.False(t, snapForOpponent.Players[1].ReservedCards[0].Visible)
}

func newTestMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

// nopActorServer answers every Ask with a Nop over a real websocket
// connection, driving the handshake/binder/actor-session path end to end.
func startNopActor(t *testing.T, wsURL, secret string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(secret)))

	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req actionRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return
			}
			reply, _ := json.Marshal(rules.NewNopAction())
			if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
				return
			}
		}
	}()
	return conn
}

// startSilentActor completes the handshake but never answers any Ask,
// forcing the step to hit its context deadline.
func startSilentActor(t *testing.T, wsURL, secret string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(secret)))
	return conn
}

// startBadActorServer replies to get_action with a malformed action payload,
// which should surface as a step error distinct from a timeout.
func startBadActor(t *testing.T, wsURL, secret string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(secret)))

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"not_a_real_action"}`)); err != nil {
				return
			}
		}
	}()
	return conn
}

func TestDriveReportsTimeoutWhenActorNeverResponds(t *testing.T) {
	seed := uint64(13)
	fakeSup := &fakeSupervisorClient{}
	metrics := newTestMetrics()
	srv := New(Config{GameID: "g2", NPlayers: 2, Seed: &seed, StepTimeout: 200 * time.Millisecond}, fakeSup, metrics, slog.Disabled)

	secrets := []string{"secret-a", "secret-b"}
	b := newBinder(secrets, slog.Disabled)
	ts := httptest.NewServer(b)
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

	var conns []*websocket.Conn
	conns = append(conns, startSilentActor(t, wsURL, secrets[0]))
	conns = append(conns, startSilentActor(t, wsURL, secrets[1]))
	defer func() {
		for _, c := range conns {
			_ = c.Close()
		}
	}()

	actors := b.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, reason := srv.drive(ctx, actors)

	assert.Equal(t, supervisor.EndTimeout, reason)
}

func TestDriveReportsStepErrorWhenActorSendsInvalidAction(t *testing.T) {
	seed := uint64(17)
	fakeSup := &fakeSupervisorClient{}
	metrics := newTestMetrics()
	srv := New(Config{GameID: "g3", NPlayers: 2, Seed: &seed, StepTimeout: 5 * time.Second}, fakeSup, metrics, slog.Disabled)

	secrets := []string{"secret-a", "secret-b"}
	b := newBinder(secrets, slog.Disabled)
	ts := httptest.NewServer(b)
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

	var conns []*websocket.Conn
	conns = append(conns, startBadActor(t, wsURL, secrets[0]))
	conns = append(conns, startBadActor(t, wsURL, secrets[1]))
	defer func() {
		for _, c := range conns {
			_ = c.Close()
		}
	}()

	actors := b.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, reason := srv.drive(ctx, actors)

	assert.Equal(t, supervisor.EndStepError, reason)
}

func TestDriveEndsInDrawWhenEveryActorAlwaysNops(t *testing.T) {
	seed := uint64(11)
	fakeSup := &fakeSupervisorClient{}
	metrics := newTestMetrics()
	srv := New(Config{GameID: "g1", NPlayers: 2, Seed: &seed, StepTimeout: 2 * time.Second}, fakeSup, metrics, slog.Disabled)

	secrets := []string{"secret-a", "secret-b"}
	b := newBinder(secrets, slog.Disabled)
	ts := httptest.NewServer(b)
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

	var conns []*websocket.Conn
	for _, s := range secrets {
		conns = append(conns, startNopActor(t, wsURL, s))
	}
	defer func() {
		for _, c := range conns {
			_ = c.Close()
		}
	}()

	actors := b.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	winners, reason := srv.drive(ctx, actors)

	assert.Nil(t, winners)
	assert.Equal(t, supervisor.EndDraw, reason)
}
