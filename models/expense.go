package models

import "time"

// Expense records money one member spent on behalf of the group
type Expense struct {
	Base
	GroupID     uint      `gorm:"not null;index:idx_expense_group_date,priority:1;index:idx_expense_group_payer,priority:1" json:"group_id"`
	PayerID     uint      `gorm:"not null;index:idx_expense_group_payer,priority:2" json:"payer_id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `gorm:"not null;index:idx_expense_group_date,priority:2" json:"date"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"` // always >= 0
	CreatedBy   uint      `gorm:"not null" json:"created_by"`

	// Relations
	Splits []Split `gorm:"foreignKey:ExpenseID" json:"splits,omitempty"`
}

// Split is one user's owed portion of an expense. Splits are written together
// with their expense and never updated.
type Split struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ExpenseID   uint  `gorm:"not null;uniqueIndex:idx_split_expense_user" json:"expense_id"`
	GroupID     uint  `gorm:"not null;index:idx_split_group_user,priority:1" json:"group_id"`
	UserID      uint  `gorm:"not null;uniqueIndex:idx_split_expense_user;index:idx_split_group_user,priority:2" json:"user_id"`
	AmountCents int64 `gorm:"not null" json:"amount_cents"`
}

// MemberBalance is a member's net position inside a group.
// Positive NetCents means the member is owed money.
type MemberBalance struct {
	UserID    uint   `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	PaidCents int64  `json:"paid_cents"`
	OwedCents int64  `json:"owed_cents"`
	NetCents  int64  `json:"net_cents"`
}

// Settlement is a suggested transfer that clears part of the balances
type Settlement struct {
	FromUserID  uint  `json:"from_user_id"`
	ToUserID    uint  `json:"to_user_id"`
	AmountCents int64 `json:"amount_cents"`
}
