package visitors

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// LoopbackSentinel is hashed in place of the client origin when a proxy
// stripped every address header. Degraded on purpose rather than an error:
// the event is still worth recording, it just attributes to the sentinel.
const LoopbackSentinel = "127.0.0.1"

// DailyFingerprint creates a privacy-first visitor fingerprint from a network
// origin. The fingerprint rotates at midnight UTC, so the same origin hashes
// differently on different days and cannot be tracked across days. The origin
// itself is never stored - only the hash.
func DailyFingerprint(origin string, at time.Time) string {
	if origin == "" {
		origin = LoopbackSentinel
	}

	day := at.UTC().Format("2006-01-02")
	hash := sha256.Sum256([]byte(origin + day))
	return hex.EncodeToString(hash[:])
}
