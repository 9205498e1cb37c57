package models

import "github.com/villagegrid/powerline-alerts/internal/geo"

type Role string

const (
	RoleResident Role = "resident"
	RoleOfficial Role = "official"
	RoleAdmin    Role = "admin"
)

// IsOfficial reports whether the user can work alerts; admins count.
func (r Role) IsOfficial() bool {
	return r == RoleOfficial || r == RoleAdmin
}

type User struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Role     Role       `json:"role"`
	Location *geo.Point `json:"location,omitempty"`
}
