package models

import "time"

// Group is a trip: a named set of members with an optional date range
type Group struct {
	Base
	Name         string     `gorm:"not null" json:"name"`
	Slug         string     `gorm:"uniqueIndex;not null" json:"slug"`
	OwnerID      uint       `gorm:"not null;index" json:"owner_id"`
	Place        string     `json:"place"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	MembersCount int        `gorm:"not null;default:1" json:"members_count"`

	// Relations
	Owner       User         `gorm:"foreignKey:OwnerID" json:"-"`
	Memberships []Membership `gorm:"foreignKey:GroupID" json:"-"`
}

// HasTripBounds reports whether the group declares a complete date range.
func (g *Group) HasTripBounds() bool {
	return g.StartDate != nil && g.EndDate != nil
}

// GroupSummary is the lightweight listing shape
type GroupSummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	MembersCount int    `json:"members_count"`
}
