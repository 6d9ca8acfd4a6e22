// Package match implements the Match Server: it solicits decisions from
// remote player-container actors over framed WebSocket/JSON, drives the
// rules engine's turn state machine, enforces step timeouts, hides
// information the rules snapshot would otherwise leak, and reports the
// outcome to the Supervisor's internal gRPC surface.
package match

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/mux"
	"github.com/lightsing/splendor/internal/rules"
	"github.com/lightsing/splendor/internal/supervisor"
)

// Config is the Match Server's full env-var surface, per spec.md §4.2's
// Startup section.
type Config struct {
	GameID           string
	NPlayers         int
	Seed             *uint64
	StepTimeout      time.Duration
	SecretsPath      string
	ServerAddr       string
	SupervisorSocket string
}

// Server drives exactly one match to completion.
type Server struct {
	cfg        Config
	rng        *rand.Rand
	game       *rules.GameState
	replay     *ReplayLog
	metrics    *Metrics
	supervisor supervisor.SupervisorClient
	log        slog.Logger
}

func New(cfg Config, sup supervisor.SupervisorClient, metrics *Metrics, log slog.Logger) *Server {
	var rng *rand.Rand
	if cfg.Seed != nil {
		rng = rand.New(rand.NewSource(int64(*cfg.Seed)))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Server{
		cfg:        cfg,
		rng:        rng,
		game:       rules.NewGame(rng, cfg.NPlayers),
		replay:     NewReplayLog(),
		metrics:    metrics,
		supervisor: sup,
		log:        log,
	}
}

// Run generates and publishes secrets, accepts every player actor's
// handshake, then drives the game to completion and reports the result.
// It blocks until the match is over.
func (s *Server) Run(ctx context.Context) error {
	secrets := generateSecrets(s.rng, s.cfg.NPlayers)
	if err := writeSecrets(s.cfg.SecretsPath, secrets); err != nil {
		return err
	}

	b := newBinder(secrets, s.log)
	router := mux.NewRouter()
	router.Handle("/ws", b)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	httpServer := &http.Server{Addr: s.cfg.ServerAddr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.log.Infof("game_id=%s listening on %s, waiting for %d actors", s.cfg.GameID, s.cfg.ServerAddr, s.cfg.NPlayers)

	actors := b.Wait()
	s.log.Infof("game_id=%s all actors bound", s.cfg.GameID)

	s.metrics.Active.Set(1)
	defer s.metrics.Active.Set(0)

	winners, reason := s.drive(ctx, actors)

	_ = httpServer.Close()

	reportCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.supervisor.ReportGameEnds(reportCtx, &supervisor.ReportGameEndsRequest{
		GameID:  s.cfg.GameID,
		Winners: winners,
		Reason:  reason,
	}); err != nil {
		s.log.Errorf("game_id=%s report_game_ends failed: %v", s.cfg.GameID, err)
	}

	time.Sleep(1 * time.Second)
	return nil
}

// drive is the turn driver loop from spec.md §4.2.
func (s *Server) drive(ctx context.Context, actors []*actorSession) ([]int, supervisor.EndReason) {
	for !s.game.GameEnd {
		p := s.game.Current

		changeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_, err := s.supervisor.PreparePlayerChange(changeCtx, &supervisor.PreparePlayerChangeRequest{
			GameID:     s.cfg.GameID,
			NextPlayer: p,
		})
		cancel()
		if err != nil {
			s.log.Warnf("game_id=%s prepare_player_change(%d) failed: %v", s.cfg.GameID, p, err)
		}

		start := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, s.cfg.StepTimeout)
		wasNop, stepErr := s.step(stepCtx, actors, p)
		timedOut := stepCtx.Err() != nil
		cancel()
		s.metrics.StepDuration.Observe(time.Since(start).Seconds())

		if stepErr != nil {
			if timedOut {
				s.metrics.ActorTimeouts.Inc()
				s.log.Warnf("game_id=%s player %d timed out: %v", s.cfg.GameID, p, stepErr)
				return otherPlayers(s.game.NPlayers, p), supervisor.EndTimeout
			}
			s.log.Errorf("game_id=%s player %d step error: %v", s.cfg.GameID, p, stepErr)
			return otherPlayers(s.game.NPlayers, p), supervisor.EndStepError
		}

		turnWinners, turnReason, turnEnded := s.game.AdvanceTurn(wasNop)
		if turnEnded {
			return turnWinners, toSupervisorReason(turnReason)
		}
	}
	return nil, supervisor.EndNormal
}

func toSupervisorReason(r rules.EndReason) supervisor.EndReason {
	switch r {
	case rules.EndDraw:
		return supervisor.EndDraw
	default:
		return supervisor.EndNormal
	}
}

func otherPlayers(n, exclude int) []int {
	out := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != exclude {
			out = append(out, i)
		}
	}
	return out
}

// step issues up to three request/response cycles to actor p: always
// get_action, conditionally drop_tokens, conditionally select_noble. It
// returns whatever AdvanceTurn-style winner/reason/ended triple a rules
// validation failure forces, plus whether the main action was a Nop and
// any error that should end the match as a step error.
func (s *Server) step(ctx context.Context, actors []*actorSession, p int) (wasNop bool, err error) {
	snapshot := s.hideFor(s.game.Snapshot(), p)

	raw, err := actors[p].Ask(ctx, "get_action", snapshot)
	if err != nil {
		return false, fmt.Errorf("match: get_action: %w", err)
	}
	var action rules.PlayerAction
	if err := json.Unmarshal(raw, &action); err != nil {
		return false, fmt.Errorf("match: decode player action: %w", err)
	}
	if err := s.game.ValidateMain(action); err != nil {
		return false, fmt.Errorf("match: invalid action: %w", err)
	}
	s.game.ApplyMain(action)
	s.replay.Append(s.game.Records[len(s.game.Records)-1])
	wasNop = action.Kind == rules.PlayerActionNop

	if s.game.NeedsDropTokens() {
		dropSnapshot := s.hideFor(s.game.Snapshot(), p)
		raw, err := actors[p].Ask(ctx, "drop_tokens", dropSnapshot)
		if err != nil {
			return wasNop, fmt.Errorf("match: drop_tokens: %w", err)
		}
		var drop rules.DropTokensAction
		if err := json.Unmarshal(raw, &drop); err != nil {
			return wasNop, fmt.Errorf("match: decode drop_tokens: %w", err)
		}
		if err := s.game.ValidateDropTokens(drop); err != nil {
			return wasNop, fmt.Errorf("match: invalid drop_tokens: %w", err)
		}
		s.game.ApplyDropTokens(drop)
		s.replay.Append(s.game.Records[len(s.game.Records)-1])
	}

	eligible := s.game.EligibleNobles()
	switch len(eligible) {
	case 0:
	case 1:
		s.game.ApplyVisitNoble(eligible[0])
		s.replay.Append(s.game.Records[len(s.game.Records)-1])
	default:
		nobleSnapshot := s.hideFor(s.game.Snapshot(), p)
		raw, err := actors[p].Ask(ctx, "select_noble", nobleSnapshot)
		if err != nil {
			return wasNop, fmt.Errorf("match: select_noble: %w", err)
		}
		var sel rules.SelectNoblesAction
		if err := json.Unmarshal(raw, &sel); err != nil {
			return wasNop, fmt.Errorf("match: decode select_noble: %w", err)
		}
		if err := s.game.ValidateSelectNoble(sel); err != nil {
			return wasNop, fmt.Errorf("match: invalid select_noble: %w", err)
		}
		s.game.ApplyVisitNoble(sel.Index)
		s.replay.Append(s.game.Records[len(s.game.Records)-1])
	}

	return wasNop, nil
}

// hideFor renders viewer v's own reserved cards as visible, leaving every
// other player's reserved cards at their on-table visibility, per the
// snapshot-hiding rule in spec.md §4.2.
func (s *Server) hideFor(snap rules.GameSnapshot, v int) rules.GameSnapshot {
	for i := range snap.Players {
		if snap.Players[i].Idx != v {
			continue
		}
		player := s.game.Players[v]
		views := make([]rules.CardView, len(player.ReservedCards))
		for j, rc := range player.ReservedCards {
			views[j] = rules.NewVisibleCardView(rc.Card)
		}
		snap.Players[i].ReservedCards = views
	}
	return snap
}

// Replay exposes the append-only record log, available for export after
// game end.
func (s *Server) Replay() *ReplayLog { return s.replay }
