package match

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecretsLengthAndAlphabet(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	secrets := generateSecrets(rng, 4)
	require.Len(t, secrets, 4)

	seen := map[string]bool{}
	for _, s := range secrets {
		assert.Len(t, s, secretLength)
		assert.False(t, seen[s], "secrets must not collide")
		seen[s] = true
		for _, r := range s {
			assert.True(t, strings.ContainsRune(secretAlphabet, r))
		}
	}
}

func TestWriteSecretsLayout(t *testing.T) {
	dir := t.TempDir()
	secrets := []string{"aaa", "bbb", "ccc"}
	require.NoError(t, writeSecrets(dir, secrets))

	for idx, want := range secrets {
		path := filepath.Join(dir, fmt.Sprintf("player%d", idx), "secret")
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
}
