package supervisor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newTestServer() (*Server, *fakeRuntime) {
	rt := newFakeRuntime()
	manager := NewManager()
	env := ServerEnv{SupervisorSocketVolume: "sock-vol"}
	srv := NewServer(manager, rt, Images{Server: "server:latest"}, env, nil)
	return srv, rt
}

func TestServerCreateGameRejectsBadPlayerCount(t *testing.T) {
	srv, _ := newTestServer()
	_, err := srv.CreateGame(context.Background(), &CreateGameRequest{PlayerImages: []string{"only-one"}})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServerCreateGameThenStartGame(t *testing.T) {
	srv, rt := newTestServer()
	resp, err := srv.CreateGame(context.Background(), &CreateGameRequest{PlayerImages: []string{"p", "p"}})
	require.NoError(t, err)
	require.NotEmpty(t, resp.GameID)

	_, err = srv.StartGame(context.Background(), &StartGameRequest{GameID: resp.GameID})
	require.NoError(t, err)
	assert.NotEmpty(t, rt.started)
}

func TestServerStartGameUnknownID(t *testing.T) {
	srv, _ := newTestServer()
	_, err := srv.StartGame(context.Background(), &StartGameRequest{GameID: "not-a-known-game"})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServerReportGameEndsTearsDown(t *testing.T) {
	srv, rt := newTestServer()
	resp, err := srv.CreateGame(context.Background(), &CreateGameRequest{PlayerImages: []string{"p", "p"}})
	require.NoError(t, err)

	_, err = srv.ReportGameEnds(context.Background(), &ReportGameEndsRequest{
		GameID:  resp.GameID,
		Winners: []int{0},
		Reason:  EndNormal,
	})
	require.NoError(t, err)
	assert.Empty(t, rt.networks)

	id, err := uuid.Parse(resp.GameID)
	require.NoError(t, err)
	_, ok := srv.manager.Get(id)
	assert.False(t, ok)
}

func TestServerPreparePlayerChange(t *testing.T) {
	srv, rt := newTestServer()
	resp, err := srv.CreateGame(context.Background(), &CreateGameRequest{PlayerImages: []string{"p", "p"}})
	require.NoError(t, err)

	_, err = srv.PreparePlayerChange(context.Background(), &PreparePlayerChangeRequest{GameID: resp.GameID, NextPlayer: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, rt.quotas)
}
