package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"

	"github.com/villagegrid/powerline-alerts/internal/geo"
	"github.com/villagegrid/powerline-alerts/internal/models"
)

// SQLiteStore backs the alert and notification collections with SQLite.
// The default DSN is ":memory:", so like the memory store it holds
// nothing across restarts; a file path can be used for local debugging.
// Timestamps are stored as Unix nanoseconds to keep ordering exact.
type SQLiteStore struct {
	db    *sql.DB
	clock clockwork.Clock
}

func NewSQLiteStore(dsn string, clock clockwork.Clock) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// The in-memory database vanishes if its only connection closes.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteStore{db: db, clock: clock}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			address TEXT,
			status TEXT NOT NULL,
			image_url TEXT,
			reported_by TEXT NOT NULL,
			assigned_to TEXT,
			emergency INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			alert_id TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS notification_reads (
			notification_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			PRIMARY KEY (notification_id, user_id)
		);

		CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status);
		CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts(created_at);
		CREATE INDEX IF NOT EXISTS idx_notifications_created_at ON notifications(created_at);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadSeed inserts the demo alerts and notifications. User records stay
// in the memory directory; there is no users table.
func (s *SQLiteStore) LoadSeed(ctx context.Context, seed Seed) error {
	for i := range seed.Alerts {
		if err := s.insertAlert(ctx, &seed.Alerts[i]); err != nil {
			return err
		}
	}
	for i := range seed.Notifications {
		n := &seed.Notifications[i]
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO notifications (id, alert_id, message, created_at) VALUES (?, ?, ?, ?)`,
			n.ID, n.AlertID, n.Message, n.CreatedAt.UnixNano())
		if err != nil {
			return err
		}
	}
	return nil
}

const alertColumns = `id, title, description, latitude, longitude, address, status,
	image_url, reported_by, assigned_to, emergency, created_at, updated_at`

func (s *SQLiteStore) insertAlert(ctx context.Context, a *models.Alert) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (`+alertColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Description,
		a.Location.Latitude, a.Location.Longitude, a.Location.Address,
		string(a.Status), a.ImageURL, a.ReportedBy, a.AssignedTo,
		boolToInt(a.Emergency), a.CreatedAt.UnixNano(), a.UpdatedAt.UnixNano())
	return err
}

func (s *SQLiteStore) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	return s.queryAlerts(ctx,
		`SELECT `+alertColumns+` FROM alerts ORDER BY created_at DESC, rowid DESC`)
}

func (s *SQLiteStore) ListAlertsByStatus(ctx context.Context, status models.Status) ([]models.Alert, error) {
	return s.queryAlerts(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE status = ? ORDER BY created_at DESC, rowid DESC`,
		string(status))
}

func (s *SQLiteStore) GetAlertByID(ctx context.Context, id string) (*models.Alert, error) {
	alerts, err := s.queryAlerts(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(alerts) == 0 {
		return nil, ErrNotFound
	}
	return &alerts[0], nil
}

func (s *SQLiteStore) CreateAlert(ctx context.Context, in NewAlert) (*models.Alert, error) {
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
	if err := s.insertAlert(ctx, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

func (s *SQLiteStore) UpdateAlertStatus(ctx context.Context, id string, status models.Status, assignedTo string) (*models.Alert, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET status = ?, assigned_to = ?, updated_at = ? WHERE id = ?`,
		string(status), assignedTo, s.clock.Now().UnixNano(), id)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetAlertByID(ctx, id)
}

func (s *SQLiteStore) ListAlertsNear(ctx context.Context, pt geo.Point, radiusKm float64) ([]models.Alert, error) {
	// Full scan plus in-process haversine. The dataset is tiny; a
	// spatial index would be overkill.
	alerts, err := s.queryAlerts(ctx, `SELECT `+alertColumns+` FROM alerts`)
	if err != nil {
		return nil, err
	}
	out := alerts[:0]
	for _, a := range alerts {
		if geo.Distance(pt, a.Location.Point()) <= radiusKm {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *SQLiteStore) queryAlerts(ctx context.Context, query string, args ...any) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var (
			a                    models.Alert
			status               string
			address, image       sql.NullString
			assigned             sql.NullString
			emergency            int
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Description,
			&a.Location.Latitude, &a.Location.Longitude, &address,
			&status, &image, &a.ReportedBy, &assigned, &emergency,
			&createdAt, &updatedAt); err != nil {
			return nil, err
		}
		a.Location.Address = address.String
		a.Status = models.Status(status)
		a.ImageURL = image.String
		a.AssignedTo = assigned.String
		a.Emergency = emergency != 0
		a.CreatedAt = timeFromNanos(createdAt)
		a.UpdatedAt = timeFromNanos(updatedAt)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *SQLiteStore) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, alert_id, message, created_at FROM notifications ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var (
			n         models.Notification
			createdAt int64
		)
		if err := rows.Scan(&n.ID, &n.AlertID, &n.Message, &createdAt); err != nil {
			return nil, err
		}
		n.CreatedAt = timeFromNanos(createdAt)
		n.ReadBy = []string{}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range notifications {
		readers, err := s.readersOf(ctx, notifications[i].ID)
		if err != nil {
			return nil, err
		}
		notifications[i].ReadBy = readers
	}
	return notifications, nil
}

func (s *SQLiteStore) readersOf(ctx context.Context, notificationID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id FROM notification_reads WHERE notification_id = ?`, notificationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readers := []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		readers = append(readers, userID)
	}
	return readers, rows.Err()
}

func (s *SQLiteStore) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications n
		 WHERE NOT EXISTS (
			SELECT 1 FROM notification_reads r
			WHERE r.notification_id = n.id AND r.user_id = ?
		 )`, userID).Scan(&count)
	return count, err
}

func (s *SQLiteStore) MarkRead(ctx context.Context, id, userID string) error {
	// INSERT OR IGNORE gives set semantics; the foreign id check keeps
	// unknown notification ids a silent no-op instead of a dangling row.
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO notification_reads (notification_id, user_id)
		 SELECT id, ? FROM notifications WHERE id = ?`, userID, id)
	return err
}

func (s *SQLiteStore) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO notification_reads (notification_id, user_id)
		 SELECT id, ? FROM notifications`, userID)
	return err
}

func (s *SQLiteStore) AddNotification(ctx context.Context, message, alertID string) (*models.Notification, error) {
	n := models.Notification{
		ID:        uuid.NewString(),
		AlertID:   alertID,
		Message:   message,
		CreatedAt: s.clock.Now(),
		ReadBy:    []string{},
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, alert_id, message, created_at) VALUES (?, ?, ?, ?)`,
		n.ID, n.AlertID, n.Message, n.CreatedAt.UnixNano())
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func timeFromNanos(n int64) time.Time {
	return time.Unix(0, n)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
