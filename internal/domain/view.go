package domain

import "time"

// Device is the coarse device taxonomy derived from the user agent.
type Device string

const (
	DeviceDesktop Device = "desktop"
	DeviceMobile  Device = "mobile"
	DeviceTablet  Device = "tablet"
	DeviceUnknown Device = "Unknown"
)

// Browser is the coarse browser taxonomy derived from the user agent.
type Browser string

const (
	BrowserChrome  Browser = "Chrome"
	BrowserFirefox Browser = "Firefox"
	BrowserSafari  Browser = "Safari"
	BrowserEdge    Browser = "Edge"
	BrowserOpera   Browser = "Opera"
	BrowserUnknown Browser = "Unknown"
)

// Visitor carries the request context the view pipeline needs, passed in
// explicitly by the redirect handler.
type Visitor struct {
	IP        string
	UserAgent string
	Referrer  string
}

// ViewEvent is one row per redirect attempt. Events are immutable once
// written; for every counted event the owning link's views/earnings are
// incremented in the same transaction as the insert.
type ViewEvent struct {
	ID        int64     `db:"id"`
	LinkID    int64     `db:"link_id"`
	IP        string    `db:"ip"`
	Country   string    `db:"country"`
	Device    Device    `db:"device"`
	Browser   Browser   `db:"browser"`
	Referrer  string    `db:"referrer"`
	Counted   bool      `db:"counted"`
	Earning   float64   `db:"earning"`
	CreatedAt time.Time `db:"created_at"`
}

// ViewOutcome is what the redirect handler gets back from the view
// pipeline. Counted is exposed for logging only, never to the visitor.
type ViewOutcome struct {
	Counted bool
	Earning float64
	Reason  string // why the view was not counted, empty when counted
}
