package models

// User represents a registered account
type User struct {
	Base

	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Relations
	Memberships []Membership `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
}

// UserSummary is the public view of a user embedded in API responses
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
