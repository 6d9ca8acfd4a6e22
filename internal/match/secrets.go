package match

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

const secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
const secretLength = 32

// generateSecrets produces n 32-character alphanumeric secrets using rng,
// mirroring the original server's Alphanumeric.sample_string(rng, 32).
func generateSecrets(rng *rand.Rand, n int) []string {
	secrets := make([]string, n)
	for i := range secrets {
		buf := make([]byte, secretLength)
		for j := range buf {
			buf[j] = secretAlphabet[rng.Intn(len(secretAlphabet))]
		}
		secrets[i] = string(buf)
	}
	return secrets
}

// writeSecrets writes secrets[idx] to {secretsPath}/player{idx}/secret.
func writeSecrets(secretsPath string, secrets []string) error {
	for idx, secret := range secrets {
		dir := filepath.Join(secretsPath, fmt.Sprintf("player%d", idx))
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("match: create secrets dir %s: %w", dir, err)
		}
		path := filepath.Join(dir, "secret")
		if err := os.WriteFile(path, []byte(secret), 0o600); err != nil {
			return fmt.Errorf("match: write secret %s: %w", path, err)
		}
	}
	return nil
}
