package services

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"tripplanner/config"
	"tripplanner/models"
	"tripplanner/utils"
)

// setupTestDB opens a migrated SQLite database in a temp directory
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.OpenDB(config.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	user := &models.User{Name: name, Email: email, PasswordHash: "not-a-real-hash"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func createGroup(t *testing.T, db *gorm.DB, owner *models.User, input CreateGroupInput) *models.Group {
	t.Helper()

	group, err := NewGroupService(db).Create(context.Background(), owner, input)
	if err != nil {
		t.Fatalf("failed to create group %q: %v", input.Name, err)
	}
	return group
}

func addMember(t *testing.T, db *gorm.DB, owner *models.User, slug string, member *models.User) {
	t.Helper()

	_, err := NewMembershipService(db, nil).Add(context.Background(), owner, slug, AddMemberInput{Email: member.Email})
	if err != nil {
		t.Fatalf("failed to add %s: %v", member.Email, err)
	}
}

// expectAppError fails unless err is an *AppError with the given kind and code
func expectAppError(t *testing.T, err error, kind utils.ErrorKind, code string) *utils.AppError {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	appErr, ok := utils.AsAppError(err)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Kind != kind || appErr.Code != code {
		t.Fatalf("expected kind %d code %s, got kind %d code %s (%s)", kind, code, appErr.Kind, appErr.Code, appErr.Message)
	}
	return appErr
}

func reloadGroup(t *testing.T, db *gorm.DB, id uint) *models.Group {
	t.Helper()

	var group models.Group
	if err := db.First(&group, id).Error; err != nil {
		t.Fatalf("failed to reload group: %v", err)
	}
	return &group
}
