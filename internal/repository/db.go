package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"
)

// Config bounds the connection pool. Overflow idle connections beyond
// MaxIdleConns are closed by the pool rather than retained.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	DialTimeout     time.Duration
}

// Open connects to the backing store and wraps it for Bun. SQLite (the
// default, a local file) and Postgres DSNs are both accepted; Postgres
// goes through a pgx pool the same way the rest of our services do.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*bun.DB, error) {
	logger.Info("opening database", "dsn", cfg.DSN)

	var (
		sqldb *sql.DB
		db    *bun.DB
	)
	if isPostgresDSN(cfg.DSN) {
		pc, err := pgxpool.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse dsn: %w", err)
		}
		if cfg.MaxOpenConns > 0 {
			pc.MaxConns = int32(cfg.MaxOpenConns)
		}
		pc.MaxConnLifetime = cfg.ConnMaxLifetime
		pc.ConnConfig.RuntimeParams["application_name"] = "order-wizard"

		dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
		pool, err := pgxpool.NewWithConfig(dialCtx, pc)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			return nil, err
		}
		sqldb = stdlib.OpenDBFromPool(pool)
		db = bun.NewDB(sqldb, pgdialect.New())
	} else {
		var err error
		sqldb, err = sql.Open("sqlite", sqliteDSN(cfg.DSN))
		if err != nil {
			logger.Error("failed to open sqlite database", "error", err)
			return nil, err
		}
		applyPoolSettings(sqldb, cfg)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		logger.Error("database ping failed", "error", err)
		return nil, err
	}

	logger.Info("database connected")
	return db, nil
}

// HealthCheck pings with a timeout to catch DSN issues early.
func HealthCheck(ctx context.Context, db *bun.DB, timeout time.Duration, logger *slog.Logger) error {
	logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.PingContext(ctx)
}

// Close closes the database connection gracefully.
func Close(db *bun.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
		return
	}
	logger.Info("database connections closed")
}

// sqliteDSN applies pool-friendly pragmas to every pooled connection.
// WAL lets readers proceed alongside a writer; the busy timeout keeps
// concurrent writers queueing instead of failing with SQLITE_BUSY.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func applyPoolSettings(db *sql.DB, cfg Config) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}
