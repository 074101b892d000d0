// Package useragent provides best-effort user agent classification for
// analytics attribution. Parsing never fails: an unrecognized or empty user
// agent simply yields empty browser/OS names and the desktop device class.
package useragent

import "strings"

// UserAgent holds the parsed classification of a raw user agent string.
type UserAgent struct {
	UserAgent string
	Browser   string
	OS        string
	Mobile    bool
	Tablet    bool
	Desktop   bool
	Bot       bool
}

var botMarkers = []string{
	"bot", "crawler", "spider", "crawling", "slurp", "headless",
	"lighthouse", "pingdom", "curl/", "wget/", "python-requests", "go-http-client",
}

// Parse classifies a raw user agent string. It is purely lexical: unknown
// agents degrade to empty browser/OS names and the desktop device class.
func Parse(userAgent string) UserAgent {
	result := UserAgent{UserAgent: userAgent}
	ua := strings.ToLower(userAgent)

	if ua == "" {
		result.Desktop = true
		return result
	}

	for _, marker := range botMarkers {
		if strings.Contains(ua, marker) {
			result.Bot = true
			break
		}
	}

	result.Browser = detectBrowser(ua)
	result.OS = detectOS(ua)

	// Tablets first: tablet user agents often contain "mobile" too
	switch {
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet") ||
		(strings.Contains(ua, "android") && !strings.Contains(ua, "mobile")):
		result.Tablet = true
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "iphone") ||
		strings.Contains(ua, "ipod") || strings.Contains(ua, "android") ||
		strings.Contains(ua, "blackberry") || strings.Contains(ua, "windows phone"):
		result.Mobile = true
	default:
		result.Desktop = true
	}

	return result
}

// detectBrowser returns a normalized browser family name or "" when no
// recognized marker is present. Order matters: Chrome-derived browsers embed
// "chrome" and Safari's token appears in nearly everything WebKit-based.
func detectBrowser(ua string) string {
	switch {
	case strings.Contains(ua, "edg/") || strings.Contains(ua, "edge/"):
		return "edge"
	case strings.Contains(ua, "opr/") || strings.Contains(ua, "opera"):
		return "opera"
	case strings.Contains(ua, "samsungbrowser"):
		return "samsung internet"
	case strings.Contains(ua, "firefox/") || strings.Contains(ua, "fxios"):
		return "firefox"
	case strings.Contains(ua, "chrome/") || strings.Contains(ua, "crios"):
		return "chrome"
	case strings.Contains(ua, "safari/") && strings.Contains(ua, "version/"):
		return "safari"
	case strings.Contains(ua, "msie") || strings.Contains(ua, "trident/"):
		return "ie"
	default:
		return ""
	}
}

// detectOS returns a normalized operating system family name or "" when no
// recognized marker is present.
func detectOS(ua string) string {
	switch {
	case strings.Contains(ua, "windows phone"):
		return "Windows Phone"
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad") ||
		strings.Contains(ua, "ipod") || strings.Contains(ua, "ios"):
		return "iOS"
	case strings.Contains(ua, "mac os") || strings.Contains(ua, "macintosh") || strings.Contains(ua, "darwin"):
		return "MacOS"
	case strings.Contains(ua, "cros"):
		return "ChromeOS"
	case strings.Contains(ua, "linux") || strings.Contains(ua, "x11"):
		return "Linux"
	default:
		return ""
	}
}
