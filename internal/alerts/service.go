// Package alerts owns the alert lifecycle: residents report hazards,
// officials move them through pending -> in_progress -> resolved, and
// every step lands in the notification feed.
package alerts

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/villagegrid/powerline-alerts/internal/models"
	"github.com/villagegrid/powerline-alerts/internal/observability"
	"github.com/villagegrid/powerline-alerts/internal/repository"
)

// DefaultRadiusKm is the proximity threshold for "nearby" queries and
// notification targeting.
const DefaultRadiusKm = 4

type Service struct {
	alerts        repository.AlertStore
	notifications repository.NotificationStore
	users         repository.UserDirectory
	metrics       *observability.Metrics
	radiusKm      float64
}

func NewService(alerts repository.AlertStore, notifications repository.NotificationStore, users repository.UserDirectory, metrics *observability.Metrics, radiusKm float64) *Service {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	return &Service{
		alerts:        alerts,
		notifications: notifications,
		users:         users,
		metrics:       metrics,
		radiusKm:      radiusKm,
	}
}

func (s *Service) RadiusKm() float64 {
	return s.radiusKm
}

type ReportInput struct {
	Title       string
	Description string
	Location    models.Location
	ImageURL    string
	Emergency   bool
}

// Report files a new alert on behalf of actor. The store forces the
// status to pending and stamps both timestamps; a feed notification is
// added for the new alert.
func (s *Service) Report(ctx context.Context, actor *models.User, in ReportInput) (*models.Alert, error) {
	alert, err := s.alerts.CreateAlert(ctx, repository.NewAlert{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		ImageURL:    in.ImageURL,
		ReportedBy:  actor.ID,
		Emergency:   in.Emergency,
	})
	if err != nil {
		return nil, fmt.Errorf("creating alert: %w", err)
	}

	message := "New alert reported near your location."
	if in.Emergency {
		message = fmt.Sprintf("Emergency: %s reported near your location.", in.Title)
	}
	s.notify(ctx, message, alert.ID)

	nearby, err := s.users.ListUsersNear(ctx, alert.Location.Point(), s.radiusKm)
	if err != nil {
		slog.Warn("nearby user lookup failed", "alert_id", alert.ID, "error", err)
	}

	s.metrics.AlertsReported.WithLabelValues(strconv.FormatBool(in.Emergency)).Inc()
	s.refreshOpenGauge(ctx)

	slog.Info("alert reported",
		"alert_id", alert.ID,
		"reported_by", actor.ID,
		"emergency", in.Emergency,
		"nearby_users", len(nearby),
	)
	return alert, nil
}

// UpdateStatus sets an alert's status. Any valid status is accepted; the
// cyclic workflow is applied by Advance, not enforced here. AssignedTo
// overwrites the previous assignee unconditionally, so omitting it
// clears the field.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.Status, assignedTo string) (*models.Alert, error) {
	alert, err := s.alerts.UpdateAlertStatus(ctx, id, status, assignedTo)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, statusMessage(status), alert.ID)
	s.metrics.StatusTransitions.WithLabelValues(string(status)).Inc()
	s.refreshOpenGauge(ctx)

	slog.Info("alert status updated",
		"alert_id", alert.ID,
		"status", status,
		"assigned_to", assignedTo,
	)
	return alert, nil
}

// Advance applies the dashboard's one-click transition: the next status
// in the cycle. Moving to in_progress assigns the acting official;
// otherwise the current assignee is carried over.
func (s *Service) Advance(ctx context.Context, id string, actor *models.User) (*models.Alert, error) {
	alert, err := s.alerts.GetAlertByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := alert.Status.Next()
	assignedTo := alert.AssignedTo
	if next == models.StatusInProgress {
		assignedTo = actor.ID
	}
	return s.UpdateStatus(ctx, id, next, assignedTo)
}

func (s *Service) notify(ctx context.Context, message, alertID string) {
	if _, err := s.notifications.AddNotification(ctx, message, alertID); err != nil {
		// The alert mutation already succeeded; a lost feed entry is
		// not worth failing the request over.
		slog.Warn("adding notification failed", "alert_id", alertID, "error", err)
		return
	}
	s.metrics.NotificationsCreated.Inc()
}

func (s *Service) refreshOpenGauge(ctx context.Context) {
	open := 0
	for _, status := range []models.Status{models.StatusPending, models.StatusInProgress} {
		alerts, err := s.alerts.ListAlertsByStatus(ctx, status)
		if err != nil {
			return
		}
		open += len(alerts)
	}
	s.metrics.OpenAlerts.Set(float64(open))
}

func statusMessage(status models.Status) string {
	switch status {
	case models.StatusInProgress:
		return "An alert you follow has been updated to In Progress."
	case models.StatusResolved:
		return "Resolved: Power restored in your area."
	default:
		return "An alert you follow has been reopened."
	}
}
