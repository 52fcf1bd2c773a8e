package models

import "time"

// Event is a reusable attraction in a group's catalog
type Event struct {
	Base
	GroupID       uint    `gorm:"not null;index" json:"group_id"`
	Title         string  `gorm:"not null" json:"title"`
	Description   string  `gorm:"not null" json:"description"`
	DurationHours float64 `gorm:"not null" json:"duration_hours"`
	Location      string  `gorm:"not null" json:"location"`
	CreatedBy     uint    `gorm:"not null" json:"created_by"`

	// Relations
	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

// EventSchedule places a catalog event on one user's calendar.
// EndDateTime is always derived from StartDateTime and the event duration.
type EventSchedule struct {
	Base
	GroupID       uint      `gorm:"not null;index:idx_schedule_group_user_start,priority:1" json:"group_id"`
	UserID        uint      `gorm:"not null;index:idx_schedule_group_user_start,priority:2" json:"user_id"`
	StartDateTime time.Time `gorm:"not null;index:idx_schedule_group_user_start,priority:3" json:"start_date_time"`
	EndDateTime   time.Time `gorm:"not null" json:"end_date_time"`
	EventID       uint      `gorm:"not null;index" json:"event_id"`

	// Relations
	Event *Event `json:"event,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// ScheduleConflict describes an existing placement that overlaps a candidate
type ScheduleConflict struct {
	ScheduleID uint      `json:"schedule_id"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}
