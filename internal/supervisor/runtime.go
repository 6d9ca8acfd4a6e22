package supervisor

import (
	"context"
)

// MountSpec describes one volume mount into a container.
type MountSpec struct {
	Volume   string
	Target   string
	ReadOnly bool
}

// ContainerSpec describes one container to create.
type ContainerSpec struct {
	Name     string
	Image    string
	Hostname string
	Networks []string
	Mounts   []MountSpec
	Env      []string
}

// ContainerRuntime is the narrow surface the Supervisor needs from a
// container engine. The engine itself is explicitly out of scope for this
// system ("specified only by their interface"); no Docker/OCI client SDK
// appears anywhere in the retrieved corpus, so there is no concrete
// dependency to wire here (see DESIGN.md). logRuntime below is the default
// implementation, standing in the way an integration-test double would.
type ContainerRuntime interface {
	CreateNetwork(ctx context.Context, name string) error
	CreateVolume(ctx context.Context, name string) error
	CreateContainer(ctx context.Context, spec ContainerSpec) (id string, err error)
	StartContainer(ctx context.Context, id string) error
	SetCPUQuota(ctx context.Context, id string, period, quota int64) error
	RemoveContainer(ctx context.Context, id string) error
	RemoveNetwork(ctx context.Context, name string) error
	RemoveVolume(ctx context.Context, name string) error
}

// logRuntime logs every operation instead of driving a real container
// engine, and returns the requested container name as its id so
// GameInstance's bookkeeping still works end to end.
type logRuntime struct {
	logf func(format string, args ...any)
}

// NewLogRuntime builds a ContainerRuntime that only logs, using logf for
// output (e.g. a slog.Logger.Infof-shaped function).
func NewLogRuntime(logf func(format string, args ...any)) ContainerRuntime {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &logRuntime{logf: logf}
}

func (r *logRuntime) CreateNetwork(_ context.Context, name string) error {
	r.logf("runtime: create network %s", name)
	return nil
}

func (r *logRuntime) CreateVolume(_ context.Context, name string) error {
	r.logf("runtime: create volume %s", name)
	return nil
}

func (r *logRuntime) CreateContainer(_ context.Context, spec ContainerSpec) (string, error) {
	r.logf("runtime: create container %s image=%s networks=%v mounts=%d", spec.Name, spec.Image, spec.Networks, len(spec.Mounts))
	return spec.Name, nil
}

func (r *logRuntime) StartContainer(_ context.Context, id string) error {
	r.logf("runtime: start container %s", id)
	return nil
}

func (r *logRuntime) SetCPUQuota(_ context.Context, id string, period, quota int64) error {
	r.logf("runtime: set cpu quota container=%s period=%d quota=%d", id, period, quota)
	return nil
}

func (r *logRuntime) RemoveContainer(_ context.Context, id string) error {
	r.logf("runtime: remove container %s", id)
	return nil
}

func (r *logRuntime) RemoveNetwork(_ context.Context, name string) error {
	r.logf("runtime: remove network %s", name)
	return nil
}

func (r *logRuntime) RemoveVolume(_ context.Context, name string) error {
	r.logf("runtime: remove volume %s", name)
	return nil
}
