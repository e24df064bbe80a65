package orm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/restaurantchain/order-backend/internal/config"
)

const slowQueryThreshold = 200 * time.Millisecond

// Connect opens the store selected by cfg and migrates its schema.
// The returned function releases the underlying connections.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, func(), error) {
	dialector, closeFn, err := newDialector(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	db, err := Open(dialector, logger)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	release := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		closeFn()
	}

	if cfg.Driver == config.DriverSQLite {
		// sqlite has a single writer; one connection queues transactions instead of failing with SQLITE_BUSY
		sqlDB, err := db.DB()
		if err != nil {
			release()
			return nil, nil, fmt.Errorf("failed to get sqlite connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(ctx, db); err != nil {
		release()
		return nil, nil, err
	}

	return db, release, nil
}

// Open wraps a dialector in a gorm handle that translates driver errors into gorm errors.
func Open(dialector gorm.Dialector, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("open_db: %w", err)
	}

	return db, nil
}

// Migrate creates or alters every table this package owns.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("migrate_db: %w", err)
	}
	return nil
}

func newDialector(ctx context.Context, cfg config.DatabaseConfig) (gorm.Dialector, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return newPostgresDialector(ctx, cfg.Postgres)
	case config.DriverMySQL:
		return gormmysql.Open(mysqlDSN(cfg.MySQL)), func() {}, nil
	case config.DriverSQLite:
		return sqlite.Open(sqliteDSN(cfg.SQLitePath)), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// newPostgresDialector creates a pgx pool, verifies connectivity and hands the pool to gorm.
func newPostgresDialector(ctx context.Context, cfg config.PostgresConfig) (gorm.Dialector, func(), error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, nil, fmt.Errorf("parse_pool_config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("create_pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping_db: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	return postgres.New(postgres.Config{Conn: sqlDB}), pool.Close, nil
}

func mysqlDSN(cfg config.MySQLConfig) string {
	c := mysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	c.DBName = cfg.DB
	c.ParseTime = true
	c.Loc = time.UTC
	return c.FormatDSN()
}

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}

// gormLogger forwards gorm's query log to slog.
type gormLogger struct {
	logger *slog.Logger
	level  gormlogger.LogLevel
}

func newGormLogger(logger *slog.Logger) gormlogger.Interface {
	return &gormLogger{logger: logger, level: gormlogger.Warn}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLogger{logger: l.logger, level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.logger.ErrorContext(ctx, "Query failed", "sql", sql, "rows", rows, "elapsed", elapsed, "error", err)
	case elapsed > slowQueryThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.logger.WarnContext(ctx, "Slow query", "sql", sql, "rows", rows, "elapsed", elapsed)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.logger.DebugContext(ctx, "Query executed", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
