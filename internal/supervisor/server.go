package supervisor

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Images pins the server/player container images CreateGame provisions.
// The controller surface takes player_images per spec.md §4.3; the server
// image is fixed per deployment rather than controller-supplied, since
// spec.md names only player_images as a CreateGame parameter.
type Images struct {
	Server string
}

// Server implements both the external Controller surface and the internal
// Supervisor surface over the same Manager/ContainerRuntime.
type Server struct {
	manager *Manager
	runtime ContainerRuntime
	images  Images
	env     ServerEnv
	logf    func(format string, args ...any)
}

func NewServer(manager *Manager, runtime ContainerRuntime, images Images, env ServerEnv, logf func(string, ...any)) *Server {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Server{manager: manager, runtime: runtime, images: images, env: env, logf: logf}
}

// CreateGame provisions a fresh GameInstance's networks, volumes and
// containers without starting them, per spec.md §4.3 step 1-5.
func (s *Server) CreateGame(ctx context.Context, req *CreateGameRequest) (*CreateGameResponse, error) {
	n := len(req.PlayerImages)
	if n < 2 || n > 4 {
		return nil, status.Errorf(codes.InvalidArgument, "supervisor: player_images must have 2-4 entries, got %d", n)
	}
	env := s.env
	if req.StepTimeout != nil {
		env.StepTimeoutSeconds = *req.StepTimeout
	}
	env.Seed = req.Seed

	inst, err := NewGameInstance(ctx, s.runtime, s.images.Server, req.PlayerImages, env)
	if err != nil {
		s.logf("supervisor: create_game failed: %v", err)
		return nil, status.Errorf(codes.Internal, "supervisor: create game: %v", err)
	}
	s.manager.put(inst)
	s.logf("game_id=%s event=created players=%d", inst.ID, n)
	return &CreateGameResponse{GameID: inst.ID.String()}, nil
}

// StartGame starts a previously created instance's server container, then
// every player container in parallel.
func (s *Server) StartGame(ctx context.Context, req *StartGameRequest) (*StartGameResponse, error) {
	id, err := uuid.Parse(req.GameID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "supervisor: invalid game_id %q", req.GameID)
	}
	inst, ok := s.manager.Get(id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "supervisor: game %s not found", id)
	}
	if err := inst.Start(ctx); err != nil {
		s.logf("game_id=%s event=start_failed error=%v", id, err)
		return nil, status.Errorf(codes.Internal, "supervisor: start game: %v", err)
	}
	s.logf("game_id=%s event=started", id)
	return &StartGameResponse{}, nil
}

// ReportGameEnds tears the instance down and records the outcome. It is
// consumed only by the match server of the game in question, over the
// internal UDS surface.
func (s *Server) ReportGameEnds(ctx context.Context, req *ReportGameEndsRequest) (*ReportGameEndsResponse, error) {
	id, err := uuid.Parse(req.GameID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "supervisor: invalid game_id %q", req.GameID)
	}
	s.logf("game_id=%s event=ended reason=%s winners=%v", id, req.Reason, req.Winners)
	if err := s.manager.Teardown(ctx, id); err != nil {
		s.logf("game_id=%s event=teardown_failed error=%v", id, err)
		return nil, status.Errorf(codes.Internal, "supervisor: teardown: %v", err)
	}
	return &ReportGameEndsResponse{}, nil
}

// PreparePlayerChange reschedules CPU quota ahead of the driver asking the
// next player actor for a decision.
func (s *Server) PreparePlayerChange(ctx context.Context, req *PreparePlayerChangeRequest) (*PreparePlayerChangeResponse, error) {
	id, err := uuid.Parse(req.GameID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "supervisor: invalid game_id %q", req.GameID)
	}
	inst, ok := s.manager.Get(id)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "supervisor: game %s not found", id)
	}
	if err := inst.PreparePlayerChange(ctx, req.NextPlayer); err != nil {
		return nil, status.Errorf(codes.Internal, "supervisor: prepare player change: %v", err)
	}
	return &PreparePlayerChangeResponse{}, nil
}
