package repository

import (
	"context"
	"errors"

	"github.com/villagegrid/powerline-alerts/internal/geo"
	"github.com/villagegrid/powerline-alerts/internal/models"
)

// ErrNotFound is returned by lookups that miss. Handlers map it to 404.
var ErrNotFound = errors.New("not found")

// NewAlert carries the caller-controlled fields of a report. The store
// assigns the id and timestamps and forces the status to pending, so a
// caller cannot smuggle those in.
type NewAlert struct {
	Title       string
	Description string
	Location    models.Location
	ImageURL    string
	ReportedBy  string
	Emergency   bool
}

type AlertStore interface {
	// ListAlerts returns every alert newest-first by creation time. Ties
	// keep insertion order (most recently inserted first).
	ListAlerts(ctx context.Context) ([]models.Alert, error)
	ListAlertsByStatus(ctx context.Context, status models.Status) ([]models.Alert, error)
	GetAlertByID(ctx context.Context, id string) (*models.Alert, error)
	CreateAlert(ctx context.Context, in NewAlert) (*models.Alert, error)
	// UpdateAlertStatus sets the status and stamps UpdatedAt. AssignedTo
	// is overwritten unconditionally: passing "" clears any previous
	// assignee. The store does not validate transitions.
	UpdateAlertStatus(ctx context.Context, id string, status models.Status, assignedTo string) (*models.Alert, error)
	ListAlertsNear(ctx context.Context, pt geo.Point, radiusKm float64) ([]models.Alert, error)
}

type NotificationStore interface {
	ListNotifications(ctx context.Context) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	// MarkRead is idempotent and a silent no-op when id is unknown.
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	AddNotification(ctx context.Context, message, alertID string) (*models.Notification, error)
}

type UserDirectory interface {
	// CurrentUser returns the session stand-in: the first seeded user.
	CurrentUser(ctx context.Context) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	Officials(ctx context.Context) ([]models.User, error)
	// ListUsersNear skips users that have no location on file.
	ListUsersNear(ctx context.Context, pt geo.Point, radiusKm float64) ([]models.User, error)
}
