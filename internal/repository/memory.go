package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/villagegrid/powerline-alerts/internal/geo"
	"github.com/villagegrid/powerline-alerts/internal/models"
)

// MemoryStore holds all collections in process memory behind one mutex.
// Nothing survives a restart.
type MemoryStore struct {
	clock clockwork.Clock

	mu            sync.RWMutex
	alerts        []models.Alert
	users         []models.User
	notifications []models.Notification
}

func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{clock: clock}
}

// LoadSeed replaces the collections with the given seed data.
func (s *MemoryStore) LoadSeed(seed Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append([]models.Alert(nil), seed.Alerts...)
	s.users = append([]models.User(nil), seed.Users...)
	s.notifications = append([]models.Notification(nil), seed.Notifications...)
}

func (s *MemoryStore) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedAlerts(s.alerts, nil), nil
}

func (s *MemoryStore) ListAlertsByStatus(ctx context.Context, status models.Status) ([]models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedAlerts(s.alerts, func(a *models.Alert) bool {
		return a.Status == status
	}), nil
}

func (s *MemoryStore) GetAlertByID(ctx context.Context, id string) (*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			a := s.alerts[i]
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateAlert(ctx context.Context, in NewAlert) (*models.Alert, error) {
	now := s.clock.Now()
	alert := models.Alert{
		ID:          "alert-" + uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Status:      models.StatusPending,
		ImageURL:    in.ImageURL,
		ReportedBy:  in.ReportedBy,
		Emergency:   in.Emergency,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.alerts = append([]models.Alert{alert}, s.alerts...)
	s.mu.Unlock()

	return &alert, nil
}

func (s *MemoryStore) UpdateAlertStatus(ctx context.Context, id string, status models.Status, assignedTo string) (*models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID != id {
			continue
		}
		s.alerts[i].Status = status
		s.alerts[i].AssignedTo = assignedTo
		s.alerts[i].UpdatedAt = s.clock.Now()
		a := s.alerts[i]
		return &a, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListAlertsNear(ctx context.Context, pt geo.Point, radiusKm float64) ([]models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Alert
	for i := range s.alerts {
		if geo.Distance(pt, s.alerts[i].Location.Point()) <= radiusKm {
			out = append(out, s.alerts[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) CurrentUser(ctx context.Context) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.users) == 0 {
		return nil, ErrNotFound
	}
	u := s.users[0]
	return &u, nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Officials(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.User
	for i := range s.users {
		if s.users[i].Role.IsOfficial() {
			out = append(out, s.users[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) ListUsersNear(ctx context.Context, pt geo.Point, radiusKm float64) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.User
	for i := range s.users {
		loc := s.users[i].Location
		if loc == nil {
			continue
		}
		if geo.Distance(pt, *loc) <= radiusKm {
			out = append(out, s.users[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, len(s.notifications))
	copy(out, s.notifications)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) UnreadCount(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for i := range s.notifications {
		if !s.notifications[i].ReadByUser(userID) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) MarkRead(ctx context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].MarkRead(userID)
			return nil
		}
	}
	// Unknown id is a silent no-op.
	return nil
}

func (s *MemoryStore) MarkAllRead(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		s.notifications[i].MarkRead(userID)
	}
	return nil
}

func (s *MemoryStore) AddNotification(ctx context.Context, message, alertID string) (*models.Notification, error) {
	n := models.Notification{
		ID:        uuid.NewString(),
		AlertID:   alertID,
		Message:   message,
		CreatedAt: s.clock.Now(),
		ReadBy:    []string{},
	}

	s.mu.Lock()
	s.notifications = append([]models.Notification{n}, s.notifications...)
	s.mu.Unlock()

	return &n, nil
}

// sortedAlerts copies, filters, and orders newest-first. The sort is
// stable so equal timestamps keep their head-insert order.
func sortedAlerts(alerts []models.Alert, keep func(*models.Alert) bool) []models.Alert {
	out := make([]models.Alert, 0, len(alerts))
	for i := range alerts {
		if keep == nil || keep(&alerts[i]) {
			out = append(out, alerts[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
