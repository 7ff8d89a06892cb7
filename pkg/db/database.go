package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/grievance_system/configs"
	"github.com/grievance_system/internal/models"
	"github.com/grievance_system/pkg/logger"
)

// Pool settings for server databases (mysql, postgres).
const (
	maxIdleConns    = 10
	maxOpenConns    = 100
	connMaxLifetime = time.Hour
	connMaxIdleTime = 30 * time.Minute

	healthCheckTimeout = 2 * time.Second
)

// Open connects to the database selected by cfg.DBDriver, tunes the
// connection pool and returns the handle. lg may be nil, in which case SQL
// logging is silenced.
func Open(cfg *configs.Configuration, lg *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case configs.DriverMySQL:
		dialector = mysql.Open(cfg.DSN())
	case configs.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case configs.DriverSQLite, "":
		dbPath := cfg.SQLitePath
		// make sure the directory holding the database file exists
		dbDir := filepath.Dir(dbPath)
		if _, err := os.Stat(dbDir); os.IsNotExist(err) {
			if lg != nil {
				lg.Info("Database directory %s does not exist, creating it...", dbDir)
			}
			if mkErr := os.MkdirAll(dbDir, 0755); mkErr != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dbDir, mkErr)
			}
		}
		dialector = sqlite.Open(sqliteDSN(dbPath))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(lg, cfg.GinMode)})
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", cfg.DBDriver, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}

	if cfg.DBDriver == configs.DriverMySQL || cfg.DBDriver == configs.DriverPostgres {
		sqlDB.SetMaxIdleConns(maxIdleConns)
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetConnMaxLifetime(connMaxLifetime)
		sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
	} else {
		// sqlite serialises writers; a single connection avoids "database is locked"
		sqlDB.SetMaxOpenConns(1)
	}

	if lg != nil {
		lg.Info("Successfully connected to %s database", cfg.DBDriver)
	}
	return gormDB, nil
}

// OpenInMemory opens a private in-memory sqlite database with the schema
// migrated. name must be unique per database wanted.
func OpenInMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	// the in-memory database lives as long as one connection stays open
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	if err := Migrate(gormDB); err != nil {
		return nil, err
	}
	return gormDB, nil
}

// Migrate creates or upgrades every table.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate database tables: %w", err)
	}
	return nil
}

// Ping checks that the database answers within a short timeout.
func Ping(ctx context.Context, gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func Close(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func newGormLogger(lg *logger.Logger, ginMode string) gormlogger.Interface {
	if lg == nil {
		return gormlogger.Default.LogMode(gormlogger.Silent)
	}
	level := gormlogger.Info
	if ginMode == "release" {
		level = gormlogger.Warn
	}
	return gormlogger.New(
		lg.Writer(),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
