package models

import (
	"time"

	"github.com/villagegrid/powerline-alerts/internal/geo"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusResolved:
		return Status(s), true
	default:
		return "", false
	}
}

// Next returns the status that follows in the dashboard workflow:
// pending -> in_progress -> resolved -> pending (reopen). This is UI
// policy; stores accept any valid status.
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusInProgress
	case StatusInProgress:
		return StatusResolved
	default:
		return StatusPending
	}
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

func (l Location) Point() geo.Point {
	return geo.Point{Latitude: l.Latitude, Longitude: l.Longitude}
}

type Alert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    Location  `json:"location"`
	Status      Status    `json:"status"`
	ImageURL    string    `json:"image_url,omitempty"` // data URL, kept in memory only
	ReportedBy  string    `json:"reported_by"`
	AssignedTo  string    `json:"assigned_to,omitempty"`
	Emergency   bool      `json:"emergency,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (a *Alert) IsResolved() bool {
	return a.Status == StatusResolved
}
