package database

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/criminaldb/internal/config"
	"github.com/mrlokans/criminaldb/internal/failure"
	"github.com/mrlokans/criminaldb/internal/logging"
)

const opAcquire = "database.acquire"

// Provider hands out database sessions. Every successful Acquire must be paired
// with Session.Release; use WithSession to get that pairing for free.
type Provider interface {
	Acquire(ctx context.Context) (*Session, error)
}

// Session is one acquired database handle.
type Session struct {
	DB      *gorm.DB
	release func() error
}

// NewSession wraps db. release may be nil when the handle is shared.
func NewSession(db *gorm.DB, release func() error) *Session {
	return &Session{DB: db, release: release}
}

// Release gives the session back. Release errors are logged and suppressed so
// they never mask the outcome of the operation that used the session. Calling
// Release more than once is a no-op.
func (s *Session) Release() {
	if s == nil || s.release == nil {
		return
	}
	release := s.release
	s.release = nil
	if err := release(); err != nil {
		log.WithError(err).Warn("failed to release database session")
	}
}

// WithSession acquires a session from p, runs fn with it and releases it, even
// when fn fails.
func WithSession(ctx context.Context, p Provider, fn func(db *gorm.DB) error) error {
	if p == nil {
		return failure.Connectivity(opAcquire, ErrNoProvider)
	}
	s, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer s.Release()
	return fn(s.DB)
}

// Ping checks that a session can be acquired and the store answers.
func Ping(ctx context.Context, p Provider) error {
	return WithSession(ctx, p, func(db *gorm.DB) error {
		sqlDB, err := db.DB()
		if err != nil {
			return failure.Connectivity(opAcquire, err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return failure.Connectivity(opAcquire, fmt.Errorf("%w: %v", ErrUnavailable, err))
		}
		return nil
	})
}

// Connector opens a new connection for every Acquire and closes it on Release.
type Connector struct {
	cfg config.Database
}

func NewConnector(cfg config.Database) *Connector {
	return &Connector{cfg: cfg}
}

func (c *Connector) Acquire(ctx context.Context) (*Session, error) {
	db, err := open(ctx, c.cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, failure.Connectivity(opAcquire, err)
	}
	return NewSession(db.WithContext(ctx), sqlDB.Close), nil
}

// Pool keeps one connection pool open and shares it between sessions. It is
// meant for the HTTP server, where requests run concurrently.
type Pool struct {
	db *gorm.DB
}

func NewPool(ctx context.Context, cfg config.Database) (*Pool, error) {
	db, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Driver == config.DriverSQLite {
		// One writer at a time avoids "database is locked" under concurrent requests
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	return &Pool{db: db}, nil
}

func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	sqlDB, err := p.db.DB()
	if err != nil {
		return nil, failure.Connectivity(opAcquire, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, failure.Connectivity(opAcquire, fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	return NewSession(p.db.WithContext(ctx), nil), nil
}

func (p *Pool) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewProvider returns a Pool when cfg.Pooled is set and a Connector otherwise,
// together with a function closing whatever it holds open.
func NewProvider(ctx context.Context, cfg config.Database) (Provider, func() error, error) {
	if !cfg.Pooled {
		return NewConnector(cfg), func() error { return nil }, nil
	}
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return pool, pool.Close, nil
}

func open(ctx context.Context, cfg config.Database) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, failure.Connectivity(opAcquire, err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               logging.GormLogger(cfg.LogLevel),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, failure.Connectivity(opAcquire, fmt.Errorf("%w: %v", ErrUnavailable, err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, failure.Connectivity(opAcquire, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close database after failed ping")
		}
		return nil, failure.Connectivity(opAcquire, fmt.Errorf("%w: %v", ErrUnavailable, err))
	}
	return db, nil
}

// Dialector builds the gorm dialector for the configured driver.
func Dialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(SQLiteDSN(cfg.Name)), nil
	case config.DriverMySQL:
		return gormmysql.Open(MySQLDSN(cfg)), nil
	case config.DriverPostgres:
		return postgres.Open(PostgresDSN(cfg)), nil
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SQLiteDSN turns on foreign key enforcement for every connection opened with
// the returned DSN; sqlite leaves it off by default.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func MySQLDSN(cfg config.Database) string {
	port := cfg.Port
	if port == 0 {
		port = 3306
	}
	c := mysqldriver.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	c.DBName = cfg.Name
	c.ParseTime = true
	return c.FormatDSN()
}

func PostgresDSN(cfg config.Database) string {
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		pgQuote(cfg.Host), port, pgQuote(cfg.User), pgQuote(cfg.Password), pgQuote(cfg.Name), pgQuote(sslMode))
}

// pgQuote quotes a keyword/value connection string value.
func pgQuote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
