package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/villagegrid/powerline-alerts/internal/geo"
	"github.com/villagegrid/powerline-alerts/internal/models"
)

// Seed is the demo dataset the service boots with. There is no real
// registration or ingestion path, so the directory is static and the
// example alerts give the dashboard something to show.
type Seed struct {
	Alerts        []models.Alert
	Users         []models.User
	Notifications []models.Notification
}

// DefaultSeed builds the demo dataset with timestamps relative to now.
func DefaultSeed(now time.Time) Seed {
	return Seed{
		Alerts: []models.Alert{
			{
				ID:          "1",
				Title:       "Fallen power line",
				Description: "Power line has fallen across the road due to storm",
				Location: models.Location{
					Latitude:  13.0827,
					Longitude: 80.2707,
					Address:   "Near Village Center, Rural Area",
				},
				Status:     models.StatusPending,
				ImageURL:   "/placeholder.svg",
				ReportedBy: "user1",
				CreatedAt:  now.Add(-30 * time.Minute),
				UpdatedAt:  now.Add(-30 * time.Minute),
			},
			{
				ID:          "2",
				Title:       "Transformer sparking",
				Description: "Transformer near the market is sparking and making loud noises",
				Location: models.Location{
					Latitude:  13.0822,
					Longitude: 80.2755,
					Address:   "Main Market Road, Rural District",
				},
				Status:     models.StatusInProgress,
				ReportedBy: "user2",
				CreatedAt:  now.Add(-2 * time.Hour),
				UpdatedAt:  now.Add(-45 * time.Minute),
			},
			{
				ID:          "3",
				Title:       "Power pole leaning dangerously",
				Description: "Wooden power pole is leaning at a dangerous angle after heavy rain",
				Location: models.Location{
					Latitude:  13.0780,
					Longitude: 80.2690,
					Address:   "Farm Road 3, Rural Area",
				},
				Status:     models.StatusResolved,
				ReportedBy: "user3",
				CreatedAt:  now.Add(-12 * time.Hour),
				UpdatedAt:  now.Add(-2 * time.Hour),
			},
		},
		Users: []models.User{
			{
				ID:       "user1",
				Name:     "John Resident",
				Role:     models.RoleResident,
				Location: &geo.Point{Latitude: 13.0827, Longitude: 80.2707},
			},
			{
				ID:       "user2",
				Name:     "Mary Resident",
				Role:     models.RoleResident,
				Location: &geo.Point{Latitude: 13.0822, Longitude: 80.2755},
			},
			{
				ID:       "official1",
				Name:     "Sam Official",
				Role:     models.RoleOfficial,
				Location: &geo.Point{Latitude: 13.0800, Longitude: 80.2700},
			},
			{
				ID:   "admin1",
				Name: "Admin User",
				Role: models.RoleAdmin,
			},
		},
		Notifications: []models.Notification{
			{
				ID:        uuid.NewString(),
				AlertID:   "1",
				Message:   "New alert reported near your location.",
				CreatedAt: now.Add(-15 * time.Minute),
				ReadBy:    []string{},
			},
			{
				ID:        uuid.NewString(),
				AlertID:   "2",
				Message:   "An alert you follow has been updated to In Progress.",
				CreatedAt: now.Add(-time.Hour),
				ReadBy:    []string{},
			},
			{
				ID:        uuid.NewString(),
				AlertID:   "3",
				Message:   "Resolved: Power restored in your area.",
				CreatedAt: now.Add(-5 * time.Hour),
				ReadBy:    []string{},
			},
		},
	}
}
