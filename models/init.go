package models

import "gorm.io/gorm"

// All lists every persisted model in dependency order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Group{},
		&Membership{},
		&Event{},
		&EventSchedule{},
		&Expense{},
		&Split{},
	}
}

// Migrate creates or updates the schema for every model
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
