package events

import (
	"net/url"

	ua "sitepulse/internal/pkg/useragent"
)

// relative page URLs resolve against this base so that "/pricing" and
// "https://example.org/pricing" attribute to the same path
const defaultURLBase = "https://localhost"

// Attribution is the best-effort classification of one signal. Every field is
// independently optional: a nil Browser/OS/Source means "unknown", never an
// error.
type Attribution struct {
	Device  string
	Browser *string
	OS      *string
	Source  *string
	Path    string
}

// ParseAttribution derives device class, browser/OS family, acquisition
// source and page path from a raw user agent and page URL. It never fails:
// malformed input degrades to defaults so the event is still recorded.
func ParseAttribution(userAgent, pageURL string) Attribution {
	attribution := Attribution{Device: DeviceDesktop}

	parsedUA := ua.Parse(userAgent)
	switch {
	case parsedUA.Tablet:
		attribution.Device = DeviceTablet
	case parsedUA.Mobile:
		attribution.Device = DeviceMobile
	}
	if parsedUA.Browser != "" {
		browser := parsedUA.Browser
		attribution.Browser = &browser
	}
	if parsedUA.OS != "" {
		os := parsedUA.OS
		attribution.OS = &os
	}

	attribution.Path, attribution.Source = parsePageURL(pageURL)

	return attribution
}

// parsePageURL extracts the path component and acquisition source from a page
// URL. The source is read from utm_source first, then the generic ref
// parameter; nil means direct/unknown traffic. A malformed URL yields an
// empty path and nil source.
func parsePageURL(pageURL string) (string, *string) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", nil
	}

	if !parsed.IsAbs() {
		base, baseErr := url.Parse(defaultURLBase)
		if baseErr == nil {
			parsed = base.ResolveReference(parsed)
		}
	}

	query := parsed.Query()
	var source *string
	for _, param := range []string{"utm_source", "ref"} {
		if value := query.Get(param); value != "" {
			source = &value
			break
		}
	}

	return parsed.Path, source
}
