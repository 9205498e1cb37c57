package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villagegrid/powerline-alerts/internal/geo"
	"github.com/villagegrid/powerline-alerts/internal/models"
)

func newTestStore(t *testing.T) (*MemoryStore, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	return NewMemoryStore(clock), clock
}

func TestMemoryStore_CreateForcesPending(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	alert, err := store.CreateAlert(ctx, NewAlert{
		Title:       "Fallen power line",
		Description: "Line across the road",
		Location:    models.Location{Latitude: 13.08, Longitude: 80.27},
		ReportedBy:  "user1",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(alert.ID, "alert-"))
	assert.Equal(t, models.StatusPending, alert.Status)
	assert.Equal(t, clock.Now(), alert.CreatedAt)
	assert.Equal(t, alert.CreatedAt, alert.UpdatedAt)
	assert.Empty(t, alert.AssignedTo)
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateAlert(ctx, NewAlert{Title: "first"})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := store.CreateAlert(ctx, NewAlert{Title: "second"})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	third, err := store.CreateAlert(ctx, NewAlert{Title: "third"})
	require.NoError(t, err)

	alerts, err := store.ListAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 3)
	assert.Equal(t, third.ID, alerts[0].ID)
	assert.Equal(t, second.ID, alerts[1].ID)
	assert.Equal(t, first.ID, alerts[2].ID)

	for i := 1; i < len(alerts); i++ {
		assert.False(t, alerts[i].CreatedAt.After(alerts[i-1].CreatedAt),
			"creation times must be non-increasing")
	}
}

func TestMemoryStore_ListTiesKeepInsertionOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// Same fake-clock instant for both.
	older, err := store.CreateAlert(ctx, NewAlert{Title: "older"})
	require.NoError(t, err)
	newer, err := store.CreateAlert(ctx, NewAlert{Title: "newer"})
	require.NoError(t, err)

	alerts, err := store.ListAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, newer.ID, alerts[0].ID)
	assert.Equal(t, older.ID, alerts[1].ID)
}

func TestMemoryStore_ListByStatus(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	a, err := store.CreateAlert(ctx, NewAlert{Title: "a"})
	require.NoError(t, err)
	_, err = store.CreateAlert(ctx, NewAlert{Title: "b"})
	require.NoError(t, err)

	_, err = store.UpdateAlertStatus(ctx, a.ID, models.StatusResolved, "")
	require.NoError(t, err)

	pending, err := store.ListAlertsByStatus(ctx, models.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	resolved, err := store.ListAlertsByStatus(ctx, models.StatusResolved)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, a.ID, resolved[0].ID)
}

func TestMemoryStore_GetAlertByID_NotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.GetAlertByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UpdateStatus_StampsAndKeepsCreatedAt(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	alert, err := store.CreateAlert(ctx, NewAlert{Title: "a"})
	require.NoError(t, err)
	created := alert.CreatedAt

	clock.Advance(10 * time.Minute)
	updated, err := store.UpdateAlertStatus(ctx, alert.ID, models.StatusInProgress, "official1")
	require.NoError(t, err)

	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, "official1", updated.AssignedTo)
	assert.Equal(t, created, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created))
}

// Omitting the assignee does not preserve the previous one: the field is
// overwritten with the zero value. This matches the original behavior
// even though it looks like a bug.
func TestMemoryStore_UpdateStatus_OmittedAssigneeClears(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	alert, err := store.CreateAlert(ctx, NewAlert{Title: "Fallen power line"})
	require.NoError(t, err)

	_, err = store.UpdateAlertStatus(ctx, alert.ID, models.StatusInProgress, "official1")
	require.NoError(t, err)

	updated, err := store.UpdateAlertStatus(ctx, alert.ID, models.StatusResolved, "")
	require.NoError(t, err)
	assert.Empty(t, updated.AssignedTo)
}

func TestMemoryStore_UpdateStatus_NotFoundLeavesCollectionUntouched(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateAlert(ctx, NewAlert{Title: "a"})
	require.NoError(t, err)

	_, err = store.UpdateAlertStatus(ctx, "missing", models.StatusResolved, "x")
	assert.ErrorIs(t, err, ErrNotFound)

	alerts, err := store.ListAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.StatusPending, alerts[0].Status)
}

func TestMemoryStore_ListAlertsNear(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	here := models.Location{Latitude: 13.0827, Longitude: 80.2707}
	alert, err := store.CreateAlert(ctx, NewAlert{Title: "here", Location: here})
	require.NoError(t, err)

	// Same point, default-sized radius: included.
	near, err := store.ListAlertsNear(ctx, here.Point(), 4)
	require.NoError(t, err)
	require.Len(t, near, 1)
	assert.Equal(t, alert.ID, near[0].ID)

	// Zero radius from ~10 km away: excluded.
	farPoint := geo.Point{Latitude: 13.1727, Longitude: 80.2707}
	near, err = store.ListAlertsNear(ctx, farPoint, 0)
	require.NoError(t, err)
	assert.Empty(t, near)
}

func TestMemoryStore_Notifications(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	n1, err := store.AddNotification(ctx, "first", "alert-1")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	n2, err := store.AddNotification(ctx, "second", "alert-2")
	require.NoError(t, err)

	list, err := store.ListNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, n2.ID, list[0].ID)
	assert.Equal(t, n1.ID, list[1].ID)

	count, err := store.UnreadCount(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Mark-read is idempotent.
	require.NoError(t, store.MarkRead(ctx, n1.ID, "user1"))
	require.NoError(t, store.MarkRead(ctx, n1.ID, "user1"))

	list, err = store.ListNotifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"user1"}, list[1].ReadBy)

	count, err = store.UnreadCount(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Unknown id is a silent no-op.
	require.NoError(t, store.MarkRead(ctx, "missing", "user1"))

	require.NoError(t, store.MarkAllRead(ctx, "user1"))
	count, err = store.UnreadCount(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Another user's reads are independent.
	count, err = store.UnreadCount(ctx, "user2")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemoryStore_UserDirectory(t *testing.T) {
	store, clock := newTestStore(t)
	store.LoadSeed(DefaultSeed(clock.Now()))
	ctx := context.Background()

	current, err := store.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user1", current.ID)

	user, err := store.GetUserByID(ctx, "official1")
	require.NoError(t, err)
	assert.Equal(t, "Sam Official", user.Name)

	_, err = store.GetUserByID(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	officials, err := store.Officials(ctx)
	require.NoError(t, err)
	require.Len(t, officials, 2)
	for _, u := range officials {
		assert.True(t, u.Role.IsOfficial())
	}
}

func TestMemoryStore_ListUsersNear_SkipsUsersWithoutLocation(t *testing.T) {
	store, clock := newTestStore(t)
	store.LoadSeed(DefaultSeed(clock.Now()))
	ctx := context.Background()

	// admin1 has no location and must never match, however wide the net.
	users, err := store.ListUsersNear(ctx, geo.Point{Latitude: 13.08, Longitude: 80.27}, 10000)
	require.NoError(t, err)
	require.Len(t, users, 3)
	for _, u := range users {
		assert.NotEqual(t, "admin1", u.ID)
	}
}
