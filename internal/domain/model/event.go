//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
)

// EventStatus is the requested activity state of a scheduled show.
type EventStatus string

const (
	EventStatusActive   EventStatus = "active"
	EventStatusInactive EventStatus = "inactive"
)

// ParseEventStatus normalizes a status path segment and reports whether it is supported.
func ParseEventStatus(value string) (EventStatus, bool) {
	status := EventStatus(strings.ToLower(strings.TrimSpace(value)))
	switch status {
	case EventStatusActive, EventStatusInactive:
		return status, true
	default:
		return "", false
	}
}

// Active reports whether the status marks the event as running.
func (s EventStatus) Active() bool { return s == EventStatusActive }

// Event is a scheduled show that crews are assigned to.
type Event struct {
	ID             int64   `json:"id"`
	ShowName       string  `json:"show_name"`
	ShowNumber     int     `json:"show_number"`
	AccountManager *string `json:"account_manager,omitempty"`
	Location       *string `json:"location,omitempty"`
	Active         bool    `json:"active"`
}
