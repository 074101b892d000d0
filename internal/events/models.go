package events

import (
	"time"

	"gorm.io/datatypes"
)

// Event types sent by the instrumentation script. The set is open: an
// unrecognized type is stored verbatim, not rejected.
const (
	EventTypePageView      = "page_view"
	EventTypePageExit      = "page_exit"
	EventTypeDownload      = "download"
	EventTypeExternalClick = "external_click"
)

// Device classes derived by the attribution parser.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
)

// AnalyticsEvent represents one recorded visit signal. Rows are write-once:
// no update or delete path exists, retention is an external concern.
type AnalyticsEvent struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	EventType string `gorm:"index;index:idx_events_created_device_type,priority:3;not null"`
	PageURL   string `gorm:"not null"`
	Path      string `gorm:"index"`
	Referrer  string

	// Acquisition channel of the current visit; FirstSource carries the
	// original channel across a visitor's session lifetime and is supplied by
	// the caller, the recorder only accepts what is passed.
	Source      *string `gorm:"index"`
	FirstSource *string

	// Derived attribution; browser and OS stay null when unparseable.
	Browser *string `gorm:"index"`
	OS      *string `gorm:"index"`
	Device  string  `gorm:"index:idx_events_created_device_type,priority:2"`

	// Daily-rotating fingerprint of the network origin; the origin itself is
	// never stored.
	IPHash string `gorm:"size:64"`

	SessionID string `gorm:"index"`
	VisitorID string `gorm:"index"`

	Duration    *int // seconds, exit-type events only
	ScrollDepth *int // percentage 0-100

	Metadata datatypes.JSONMap `gorm:"type:json"`

	// Server-assigned, authoritative for all time-windowed queries.
	CreatedAt time.Time `gorm:"index;index:idx_events_created_device_type,priority:1"`
}
