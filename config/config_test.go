package config

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func TestMaskPassword(t *testing.T) {
	tests := []struct {
		dsn      string
		expected string
	}{
		{"host=db user=app password=s3cret dbname=trips", "host=db user=app password=***** dbname=trips"},
		{"host=db password=s3cret", "host=db password=*****"},
		{"trips.db", "trips.db"},
	}

	for _, tt := range tests {
		if got := maskPassword(tt.dsn); got != tt.expected {
			t.Errorf("maskPassword(%q): expected %q, got %q", tt.dsn, tt.expected, got)
		}
	}
}

func TestGetEnvAsList(t *testing.T) {
	fallback := []string{"http://localhost:3000"}

	t.Setenv("TEST_ORIGINS", " https://a.example , ,https://b.example")
	if got := getEnvAsList("TEST_ORIGINS", fallback); !reflect.DeepEqual(got, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("unexpected list %v", got)
	}

	t.Setenv("TEST_ORIGINS", " , ")
	if got := getEnvAsList("TEST_ORIGINS", fallback); !reflect.DeepEqual(got, fallback) {
		t.Errorf("expected fallback, got %v", got)
	}
}

func TestGetEnvAsIntAndBool(t *testing.T) {
	t.Setenv("TEST_INT", " 42 ")
	t.Setenv("TEST_BAD_INT", "forty-two")
	t.Setenv("TEST_BOOL", "true")

	if got := getEnvAsInt("TEST_INT", 1); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := getEnvAsInt("TEST_BAD_INT", 1); got != 1 {
		t.Errorf("expected fallback 1, got %d", got)
	}
	if !getEnvAsBool("TEST_BOOL", false) {
		t.Error("expected true")
	}
	if getEnvAsBool("TEST_MISSING_BOOL", false) {
		t.Error("expected fallback false")
	}
}

func TestLoadConfig(t *testing.T) {
	previous := AppConfig
	t.Cleanup(func() { AppConfig = previous })

	t.Run("requires a JWT secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		if err := LoadConfig(); err == nil {
			t.Error("expected error without JWT_SECRET")
		}
	})

	t.Run("rejects unknown drivers", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("DB_DRIVER", "mongodb")
		if err := LoadConfig(); err == nil {
			t.Error("expected error for unsupported driver")
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("DB_DRIVER", "SQLite")
		t.Setenv("SQLITE_PATH", "trips.db")
		t.Setenv("JWT_TTL_HOURS", "2")
		if err := LoadConfig(); err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if AppConfig.DBDriver != DriverSQLite || AppConfig.DSN() != "trips.db" {
			t.Errorf("unexpected driver %s dsn %s", AppConfig.DBDriver, AppConfig.DSN())
		}
		if AppConfig.JWTTTL != 2*time.Hour {
			t.Errorf("expected 2h ttl, got %v", AppConfig.JWTTTL)
		}
	})
}

func TestOpenDB(t *testing.T) {
	db, err := OpenDB(DriverSQLite, filepath.Join(t.TempDir(), "open.db"))
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get DB: %v", err)
	}
	defer sqlDB.Close()

	var enabled int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil {
		t.Fatalf("pragma failed: %v", err)
	}
	if enabled != 1 {
		t.Error("expected foreign keys to be enabled")
	}

	if _, err := OpenDB("mongodb", ""); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestOpenDBLogsThroughLogrus(t *testing.T) {
	var buf bytes.Buffer
	previous := logrus.StandardLogger().Out
	logrus.SetOutput(&buf)
	t.Cleanup(func() { logrus.SetOutput(previous) })

	db, err := OpenDB(DriverSQLite, filepath.Join(t.TempDir(), "logs.db"))
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get DB: %v", err)
	}
	defer sqlDB.Close()

	if err := db.Exec("CREATE TABLE things (id INTEGER PRIMARY KEY)").Error; err != nil {
		t.Fatalf("create table failed: %v", err)
	}

	var row struct{ ID int }
	if err := db.Table("things").First(&row).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
	if strings.Contains(buf.String(), "record not found") {
		t.Errorf("missing rows must not be logged, got %q", buf.String())
	}

	if err := db.Exec("SELECT * FROM missing_table").Error; err == nil {
		t.Fatal("expected an error for a missing table")
	}
	if !strings.Contains(buf.String(), "missing_table") {
		t.Errorf("expected the failed query to be logged, got %q", buf.String())
	}
}
