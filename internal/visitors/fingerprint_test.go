package visitors_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sitepulse/internal/visitors"
)

func TestDailyFingerprint(t *testing.T) {
	day := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	t.Run("generates consistent fingerprint for same origin within same day", func(t *testing.T) {
		fp1 := visitors.DailyFingerprint("203.0.113.7", day)
		fp2 := visitors.DailyFingerprint("203.0.113.7", day.Add(3*time.Hour))

		assert.Equal(t, fp1, fp2, "Same origin on the same day should generate the same fingerprint")
		assert.Len(t, fp1, 64, "SHA-256 hash should be 64 characters (hex encoded)")
	})

	t.Run("rotates at midnight UTC", func(t *testing.T) {
		fp1 := visitors.DailyFingerprint("203.0.113.7", day)
		fp2 := visitors.DailyFingerprint("203.0.113.7", day.AddDate(0, 0, 1))

		assert.NotEqual(t, fp1, fp2, "Same origin on different days should generate different fingerprints")
	})

	t.Run("day boundary uses UTC, not local time", func(t *testing.T) {
		// 23:30 UTC and 00:30 UTC the next day are different UTC days even
		// though they may fall on the same local calendar day elsewhere.
		lateEvening := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
		earlyMorning := time.Date(2026, 3, 15, 0, 30, 0, 0, time.UTC)

		fp1 := visitors.DailyFingerprint("203.0.113.7", lateEvening)
		fp2 := visitors.DailyFingerprint("203.0.113.7", earlyMorning)

		assert.NotEqual(t, fp1, fp2)
	})

	t.Run("generates different fingerprints for different origins", func(t *testing.T) {
		fp1 := visitors.DailyFingerprint("203.0.113.7", day)
		fp2 := visitors.DailyFingerprint("203.0.113.8", day)

		assert.NotEqual(t, fp1, fp2, "Different origins should generate different fingerprints")
	})

	t.Run("empty origin falls back to the loopback sentinel", func(t *testing.T) {
		fp1 := visitors.DailyFingerprint("", day)
		fp2 := visitors.DailyFingerprint(visitors.LoopbackSentinel, day)

		assert.Equal(t, fp1, fp2, "Empty origin should hash as the loopback sentinel")
	})

	t.Run("non-UTC input truncates to the same UTC day", func(t *testing.T) {
		est := time.FixedZone("EST", -5*3600)
		// 20:00 EST on March 14 is 01:00 UTC on March 15.
		localEvening := time.Date(2026, 3, 14, 20, 0, 0, 0, est)
		utcNight := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)

		fp1 := visitors.DailyFingerprint("203.0.113.7", localEvening)
		fp2 := visitors.DailyFingerprint("203.0.113.7", utcNight)

		assert.Equal(t, fp1, fp2, "Fingerprint day boundary must be timezone independent")
	})
}
