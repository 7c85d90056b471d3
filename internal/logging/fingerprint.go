package logging

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns a short, stable digest of a secret so that log lines can
// correlate tokens without revealing them. Empty input yields "-".
func Fingerprint(secret string) string {
	if secret == "" {
		return "-"
	}
	sum := blake2b.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:6])
}
