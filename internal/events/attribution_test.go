package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitepulse/internal/events"
)

const (
	chromeWindowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	safariIPhoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1"
)

func TestParseAttribution(t *testing.T) {
	t.Run("utm_source wins over ref", func(t *testing.T) {
		attribution := events.ParseAttribution(chromeWindowsUA,
			"https://example.com/blog/post?utm_source=newsletter&ref=twitter")

		require.NotNil(t, attribution.Source)
		assert.Equal(t, "newsletter", *attribution.Source)
		assert.Equal(t, "/blog/post", attribution.Path)
	})

	t.Run("ref is the fallback source", func(t *testing.T) {
		attribution := events.ParseAttribution(chromeWindowsUA,
			"https://example.com/pricing?ref=producthunt")

		require.NotNil(t, attribution.Source)
		assert.Equal(t, "producthunt", *attribution.Source)
		assert.Equal(t, "/pricing", attribution.Path)
	})

	t.Run("no campaign parameters means nil source", func(t *testing.T) {
		attribution := events.ParseAttribution(chromeWindowsUA, "https://example.com/about")

		assert.Nil(t, attribution.Source)
		assert.Equal(t, "/about", attribution.Path)
	})

	t.Run("relative URL still yields a path", func(t *testing.T) {
		attribution := events.ParseAttribution(chromeWindowsUA, "/docs/setup?utm_source=github")

		assert.Equal(t, "/docs/setup", attribution.Path)
		require.NotNil(t, attribution.Source)
		assert.Equal(t, "github", *attribution.Source)
	})

	t.Run("malformed URL degrades to empty attribution", func(t *testing.T) {
		attribution := events.ParseAttribution(chromeWindowsUA, "ht!tp://%%%")

		assert.Empty(t, attribution.Path)
		assert.Nil(t, attribution.Source)
	})

	t.Run("desktop user agent", func(t *testing.T) {
		attribution := events.ParseAttribution(chromeWindowsUA, "https://example.com/")

		assert.Equal(t, events.DeviceDesktop, attribution.Device)
		require.NotNil(t, attribution.Browser)
		assert.Equal(t, "chrome", *attribution.Browser)
		require.NotNil(t, attribution.OS)
		assert.Equal(t, "Windows", *attribution.OS)
	})

	t.Run("mobile user agent", func(t *testing.T) {
		attribution := events.ParseAttribution(safariIPhoneUA, "https://example.com/")

		assert.Equal(t, events.DeviceMobile, attribution.Device)
		require.NotNil(t, attribution.Browser)
		assert.Equal(t, "safari", *attribution.Browser)
		require.NotNil(t, attribution.OS)
		assert.Equal(t, "iOS", *attribution.OS)
	})

	t.Run("empty user agent defaults to desktop with unknown names", func(t *testing.T) {
		attribution := events.ParseAttribution("", "https://example.com/")

		assert.Equal(t, events.DeviceDesktop, attribution.Device)
		assert.Nil(t, attribution.Browser)
		assert.Nil(t, attribution.OS)
	})
}
