package models

import "time"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"

	StatusActive  = "active"
	StatusInvited = "invited"
	StatusBanned  = "banned"
)

// Membership links a user to a group. Rows are hard-deleted on removal, so
// there is no DeletedAt and the (user, group) index can be reused on re-add.
type Membership struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID   uint      `gorm:"not null;uniqueIndex:idx_membership_user_group;index" json:"user_id"`
	GroupID  uint      `gorm:"not null;uniqueIndex:idx_membership_user_group;index" json:"group_id"`
	Role     string    `gorm:"not null;default:'member'" json:"role"`   // member, admin
	Status   string    `gorm:"not null;default:'active'" json:"status"` // active, invited, banned
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	User  User  `json:"-"`
	Group Group `json:"-"`
}

func (m *Membership) IsActive() bool {
	return m.Status == StatusActive
}

func (m *Membership) IsAdmin() bool {
	return m.Role == RoleAdmin && m.Status == StatusActive
}

// MemberView is one row of the paginated member listing
type MemberView struct {
	MembershipID uint      `json:"membership_id"`
	UserID       uint      `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	IsOwner      bool      `json:"is_owner"`
	JoinedAt     time.Time `json:"joined_at"`
}
