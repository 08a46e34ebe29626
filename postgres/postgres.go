package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/myschool/campus"
	"github.com/myschool/campus/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// PG Docs: https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-PARAMKEYWORDS
const cxnStr = "host=%s port=%s dbname=%s user=%s password=%s sslmode=%s"

// CxnConfig holds connection information used to connect to a PostgreSQL database.
type CxnConfig struct {
	IsTestDB bool
	URL      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

// Connect creates a database connection through GORM according to the connection config and runs all migrations.
//
// GORM's own statements, such as slow queries, are written through l.
func Connect(config *CxnConfig, migrations []Migration, env campus.Environment, l logger.Logger) (*DB, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: no database config", campus.ErrBadConfig)
	}

	// https://gorm.io/docs/logger.html
	c := gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	}

	if env.IsDevelopment() {
		c.LogLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(buildCxnStr(config)), &gorm.Config{
		Logger: gormlogger.New(gormWriter{l: l}, c),
		NamingStrategy: schema.NamingStrategy{
			NameReplacer: strings.NewReplacer("Table", ""),
		},
		NowFunc: func() time.Time {
			return time.Now().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %s", campus.ErrBadConfig, err)
	}

	if config.IsTestDB {
		if err := db.Exec("DROP SCHEMA IF EXISTS public CASCADE; CREATE SCHEMA public;").Error; err != nil {
			return nil, fmt.Errorf("%w: resetting test database: %s", campus.ErrUnexpected, err)
		}
	}

	if err := MigrateUp(db, migrations); err != nil {
		return nil, err
	}

	return NewDB(db), nil
}

// Close releases the connections held by db.
func Close(db *DB) error {
	sqlDB, err := db.DB().DB()
	if err != nil {
		return fmt.Errorf("%w: %s", campus.ErrUnexpected, err)
	}

	return sqlDB.Close()
}

func buildCxnStr(config *CxnConfig) string {
	if config.URL != "" {
		return config.URL
	}

	if config.SSLMode == "" {
		// PG Docs: https://www.postgresql.org/docs/current/libpq-ssl.html#LIBPQ-SSL-SSLMODE-STATEMENTS
		config.SSLMode = "prefer"
	}

	return fmt.Sprintf(
		cxnStr,
		config.Host,
		config.Port,
		config.Name,
		config.User,
		config.Password,
		config.SSLMode,
	)
}

// WipeDB truncates every table in the public schema but migrations.
func WipeDB(db *DB) error {
	var tables []string
	err := db.DB().
		Table("information_schema.tables").
		Where("table_schema = ?", "public").
		Not("table_type = ?", "VIEW").
		Not("table_name = ?", "migrations").
		Pluck("table_name", &tables).
		Error
	if err != nil {
		return fmt.Errorf("%w: %s", campus.ErrUnexpected, err)
	}

	if len(tables) == 0 {
		return nil
	}

	err = db.Exec(fmt.Sprintf("TRUNCATE %s CASCADE;", strings.Join(tables, ", ")))
	if err != nil && !errors.Is(err, campus.ErrNotExist) {
		return err
	}

	return nil
}

// gormWriter sends GORM's log lines through a logger.Logger.
type gormWriter struct {
	l logger.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	if w.l == nil {
		return
	}

	w.l.Info(strings.TrimSpace(fmt.Sprintf(format, args...)), &logger.LogContext{Data: map[string]any{"source": "gorm"}})
}
