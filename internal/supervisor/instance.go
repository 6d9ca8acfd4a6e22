package supervisor

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

const (
	// cpuPeriod is the cgroup CPU period both quota values are measured
	// against, per spec.md's quota pair.
	cpuPeriod = 100000
	// cpuQuotaFrozen is ~0.1% of one core, applied to every player
	// container other than the one currently acting.
	cpuQuotaFrozen = 100
	// cpuQuotaActive is ~95% of one core, reserving headroom for the
	// server/driver, applied to the currently acting player.
	cpuQuotaActive = 95000
)

// GameInstance is one match's isolated sandbox: its networks, volumes, and
// server/player containers, grounded on the original supervisor's
// GameInstance (supervisor/src/instance.rs).
type GameInstance struct {
	ID           uuid.UUID
	runtime      ContainerRuntime
	networks     []string
	volumes      []string
	serverID     string
	playerIDs    []string
}

// NewGameInstance provisions one internal network and one secrets volume
// per player slot, a server container attached to every network and
// mounting every volume read-write, and one container per player attached
// to only its own network with its own volume mounted read-only.
func NewGameInstance(ctx context.Context, rt ContainerRuntime, serverImg string, playerImgs []string, env ServerEnv) (*GameInstance, error) {
	n := len(playerImgs)
	if n != 2 && n != 3 && n != 4 {
		return nil, fmt.Errorf("supervisor: invalid player count %d", n)
	}
	id := uuid.New()
	inst := &GameInstance{ID: id, runtime: rt}

	for idx := 0; idx < n; idx++ {
		net := fmt.Sprintf("game-%s-player%d", id, idx)
		if err := rt.CreateNetwork(ctx, net); err != nil {
			return nil, fmt.Errorf("supervisor: create network %s: %w", net, err)
		}
		inst.networks = append(inst.networks, net)

		vol := fmt.Sprintf("game-%s-player%d", id, idx)
		if err := rt.CreateVolume(ctx, vol); err != nil {
			return nil, fmt.Errorf("supervisor: create volume %s: %w", vol, err)
		}
		inst.volumes = append(inst.volumes, vol)
	}

	serverMounts := make([]MountSpec, n)
	for idx, vol := range inst.volumes {
		serverMounts[idx] = MountSpec{Volume: vol, Target: fmt.Sprintf("/app/secrets/player%d", idx)}
	}
	serverMounts = append(serverMounts, MountSpec{Volume: env.SupervisorSocketVolume, Target: "/var/run/splendor"})

	serverID, err := rt.CreateContainer(ctx, ContainerSpec{
		Name:     fmt.Sprintf("game-%s-server", id),
		Image:    serverImg,
		Hostname: "server",
		Networks: inst.networks,
		Mounts:   serverMounts,
		Env:      env.serverEnv(id.String(), n),
	})
	if err != nil {
		return nil, fmt.Errorf("supervisor: create server container: %w", err)
	}
	inst.serverID = serverID

	for idx, img := range playerImgs {
		playerID, err := rt.CreateContainer(ctx, ContainerSpec{
			Name:     fmt.Sprintf("game-%s-player%d", id, idx),
			Image:    img,
			Hostname: fmt.Sprintf("player%d", idx),
			Networks: []string{inst.networks[idx]},
			Mounts:   []MountSpec{{Volume: inst.volumes[idx], Target: "/app/secrets", ReadOnly: true}},
			Env:      env.playerEnv(),
		})
		if err != nil {
			return nil, fmt.Errorf("supervisor: create player %d container: %w", idx, err)
		}
		inst.playerIDs = append(inst.playerIDs, playerID)
	}

	return inst, nil
}

// ServerEnv carries the environment values CreateGame was asked to pass
// down to the server and player containers.
type ServerEnv struct {
	StepTimeoutSeconds     int64
	Seed                   *uint64
	SecretsPath            string
	ServerAddr             string
	SupervisorSocket       string
	SupervisorSocketVolume string
}

func (e ServerEnv) serverEnv(gameID string, n int) []string {
	env := []string{
		"GAME_ID=" + gameID,
		"N_PLAYERS=" + strconv.Itoa(n),
		"STEP_TIMEOUT=" + strconv.FormatInt(e.StepTimeoutSeconds, 10),
		"SECRETS_PATH=" + e.SecretsPath,
		"SERVER_ADDR=" + e.ServerAddr,
		"SUPERVISOR_SOCKET=" + e.SupervisorSocket,
	}
	if e.Seed != nil {
		env = append(env, "SEED="+strconv.FormatUint(*e.Seed, 10))
	}
	return env
}

func (e ServerEnv) playerEnv() []string {
	return []string{
		"RPC_URL=ws://server:8080",
		"CLIENT_SECRET=/app/secrets/secret",
		"STEP_TIMEOUT=" + strconv.FormatInt(e.StepTimeoutSeconds, 10),
	}
}

// Start starts the server container, then all player containers.
func (g *GameInstance) Start(ctx context.Context) error {
	if err := g.runtime.StartContainer(ctx, g.serverID); err != nil {
		return fmt.Errorf("supervisor: start server container: %w", err)
	}
	for _, id := range g.playerIDs {
		if err := g.runtime.StartContainer(ctx, id); err != nil {
			return fmt.Errorf("supervisor: start player container %s: %w", id, err)
		}
	}
	return nil
}

// PreparePlayerChange freezes every player container other than next to a
// 0.1%-of-core quota and unfreezes next to 95%.
func (g *GameInstance) PreparePlayerChange(ctx context.Context, next int) error {
	if next < 0 || next >= len(g.playerIDs) {
		return fmt.Errorf("supervisor: next player %d out of range", next)
	}
	for idx, id := range g.playerIDs {
		if idx == next {
			continue
		}
		if err := g.runtime.SetCPUQuota(ctx, id, cpuPeriod, cpuQuotaFrozen); err != nil {
			return fmt.Errorf("supervisor: freeze player %d: %w", idx, err)
		}
	}
	if err := g.runtime.SetCPUQuota(ctx, g.playerIDs[next], cpuPeriod, cpuQuotaActive); err != nil {
		return fmt.Errorf("supervisor: unfreeze player %d: %w", next, err)
	}
	return nil
}

// Teardown removes player containers, then the server container, then the
// volumes and networks. Errors are collected but do not stop the sweep, so
// a single already-gone resource cannot block releasing the rest.
func (g *GameInstance) Teardown(ctx context.Context) error {
	var errs []error
	for _, id := range g.playerIDs {
		if err := g.runtime.RemoveContainer(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	if g.serverID != "" {
		if err := g.runtime.RemoveContainer(ctx, g.serverID); err != nil {
			errs = append(errs, err)
		}
	}
	for _, v := range g.volumes {
		if err := g.runtime.RemoveVolume(ctx, v); err != nil {
			errs = append(errs, err)
		}
	}
	for _, n := range g.networks {
		if err := g.runtime.RemoveNetwork(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("supervisor: teardown %s: %d error(s), first: %w", g.ID, len(errs), errs[0])
	}
	return nil
}
