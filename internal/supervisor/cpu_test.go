package supervisor

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostSamplerRegistersAndSamplesWithoutPanicking(t *testing.T) {
	reg := prometheus.NewRegistry()
	sampler, err := NewHostSampler(reg)
	require.NoError(t, err)

	assert.NotPanics(t, sampler.Sample)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["splendor_supervisor_host_process_cpu_seconds"])
	assert.True(t, names["splendor_supervisor_host_memory_total_bytes"])
	assert.True(t, names["splendor_supervisor_host_memory_free_bytes"])
}
