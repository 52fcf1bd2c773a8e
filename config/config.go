package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tripplanner/models"
)

var (
	DB        *gorm.DB
	AppConfig Config
	envLoaded bool
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	// CookieName carries the session token for browser clients
	CookieName = "jwt"
)

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

type Config struct {
	Environment    string        `json:"environment"`
	ServerPort     string        `json:"server_port"`
	JWTSecret      string        `json:"-"`
	JWTTTL         time.Duration `json:"jwt_ttl"`
	DBDriver       string        `json:"db_driver"`
	DBHost         string        `json:"db_host"`
	DBPort         string        `json:"db_port"`
	DBUser         string        `json:"db_user"`
	DBPassword     string        `json:"-"`
	DBName         string        `json:"db_name"`
	DBSSLMode      string        `json:"db_ssl_mode"`
	DBMaxIdleConns int           `json:"db_max_idle_conns"`
	DBMaxOpenConns int           `json:"db_max_open_conns"`
	SQLitePath     string        `json:"sqlite_path"`
	CORSOrigins    []string      `json:"cors_origins"`
	AuthRateLimit  int           `json:"auth_rate_limit"`
	Redis          RedisConfig   `json:"redis"`
	SentryDSN      string        `json:"-"`
	SMTPHost       string        `json:"smtp_host"`
	SMTPPort       int           `json:"smtp_port"`
	SMTPUsername   string        `json:"smtp_username"`
	SMTPPassword   string        `json:"-"`
	FromEmail      string        `json:"from_email"`
	StaticDir      string        `json:"static_dir"`
	LogLevel       string        `json:"log_level"`
}

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
	envLoaded = true
}

// IsProduction reports whether cookies and logs should use production settings
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func LoadConfig() error {
	AppConfig = Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		ServerPort:     getEnv("SERVER_PORT", "4000"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTTTL:         time.Duration(getEnvAsInt("JWT_TTL_HOURS", 168)) * time.Hour,
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "tripplanner"),
		DBSSLMode:      getEnv("DB_SSL_MODE", "disable"),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		SQLitePath:     getEnv("SQLITE_PATH", "tripplanner.db"),
		CORSOrigins:    getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		AuthRateLimit:  getEnvAsInt("AUTH_RATE_LIMIT", 10),
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SentryDSN:    getEnv("SENTRY_DSN", ""),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "no-reply@tripplanner.local"),
		StaticDir:    getEnv("STATIC_DIR", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	// Validate required configurations
	if AppConfig.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if AppConfig.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL_HOURS must be positive")
	}
	switch AppConfig.DBDriver {
	case DriverPostgres:
		if AppConfig.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", AppConfig.DBDriver)
	}

	logConfig()
	return nil
}

// DSN builds the connection string for the configured driver
func (c Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost,
		c.DBPort,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBSSLMode,
	)
}

func ConnectDB() error {
	log := logrus.WithField("component", "db")
	log.Info("Attempting to connect to database...")
	log.WithField("dsn", maskPassword(AppConfig.DSN())).Debug("Using connection string")

	db, err := OpenDB(AppConfig.DBDriver, AppConfig.DSN())
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB instance: %w", err)
	}

	if AppConfig.DBDriver == DriverPostgres {
		sqlDB.SetMaxIdleConns(AppConfig.DBMaxIdleConns)
		sqlDB.SetMaxOpenConns(AppConfig.DBMaxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(30 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("Successfully connected to the database")

	log.Info("Starting database migration...")
	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	log.Info("Database migration completed")

	DB = db
	return nil
}

// OpenDB opens a GORM handle for the given driver. Driver errors such as
// unique violations are translated to gorm sentinel errors.
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		// Foreign keys are off by default in SQLite
		if !strings.Contains(dsn, "?") {
			dsn += "?_foreign_keys=on"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(logrus.StandardLogger()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// newGormLogger sends GORM warnings through logrus. Missing rows are an
// expected outcome of lookups and are not logged.
func newGormLogger(w gormlogger.Writer) gormlogger.Interface {
	return gormlogger.New(w, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Helper functions
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if !envLoaded && fallback == "" {
		logrus.Warnf("Environment variable %s not found and no fallback provided", key)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.ParseBool(strings.TrimSpace(valueStr))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func maskPassword(dsn string) string {
	const passwordMarker = "password="
	startIdx := strings.Index(dsn, passwordMarker)
	if startIdx == -1 {
		return dsn
	}

	startIdx += len(passwordMarker)
	endIdx := strings.IndexAny(dsn[startIdx:], " ")
	if endIdx == -1 {
		return dsn[:startIdx] + "*****"
	}
	return dsn[:startIdx] + "*****" + dsn[startIdx+endIdx:]
}

func logConfig() {
	logrus.WithFields(logrus.Fields{
		"environment": AppConfig.Environment,
		"port":        AppConfig.ServerPort,
		"db_driver":   AppConfig.DBDriver,
		"database":    fmt.Sprintf("%s@%s:%s/%s", AppConfig.DBUser, AppConfig.DBHost, AppConfig.DBPort, AppConfig.DBName),
		"redis":       AppConfig.Redis.Enabled,
		"smtp":        AppConfig.SMTPHost != "",
		"sentry":      AppConfig.SentryDSN != "",
	}).Info("Loaded configuration")
}
