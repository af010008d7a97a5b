package view

import (
	"strings"

	"vidshort/internal/domain"
)

// ClassifyDevice maps a user agent into the fixed device taxonomy.
// Tablets are checked before phones because tablet UAs usually carry the
// mobile marker too.
func ClassifyDevice(userAgent string) domain.Device {
	if userAgent == "" {
		return domain.DeviceUnknown
	}
	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "ipad"),
		strings.Contains(ua, "tablet"),
		strings.Contains(ua, "kindle"),
		strings.Contains(ua, "android") && !strings.Contains(ua, "mobile"):
		return domain.DeviceTablet
	case strings.Contains(ua, "mobi"),
		strings.Contains(ua, "iphone"),
		strings.Contains(ua, "android"):
		return domain.DeviceMobile
	case strings.Contains(ua, "windows"),
		strings.Contains(ua, "macintosh"),
		strings.Contains(ua, "x11"),
		strings.Contains(ua, "linux"):
		return domain.DeviceDesktop
	default:
		return domain.DeviceUnknown
	}
}

// ClassifyBrowser maps a user agent into the fixed browser taxonomy.
// Order matters: Edge and Opera embed the Chrome token, Chrome embeds
// Safari's.
func ClassifyBrowser(userAgent string) domain.Browser {
	if userAgent == "" {
		return domain.BrowserUnknown
	}
	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "edg/"), strings.Contains(ua, "edge"):
		return domain.BrowserEdge
	case strings.Contains(ua, "opr/"), strings.Contains(ua, "opera"):
		return domain.BrowserOpera
	case strings.Contains(ua, "firefox"):
		return domain.BrowserFirefox
	case strings.Contains(ua, "chrome"), strings.Contains(ua, "crios"):
		return domain.BrowserChrome
	case strings.Contains(ua, "safari"):
		return domain.BrowserSafari
	default:
		return domain.BrowserUnknown
	}
}
