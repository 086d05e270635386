package utils

import (
	"database/sql"
	"fmt"
	"guestlist/src-server/hashid"
	"log/slog"
	"os"
	"sync"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/olebedev/when"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config      *Config
	RawDB       *sql.DB
	BunDB       *bun.DB
	Hashids     *hashid.Codecs
	When        *when.Parser
	MetricChans *Metric

	AppCloseSignalChan chan os.Signal

	gracefulShutdownMu    sync.Mutex
	gracefulShutdownChans []*chan struct{}
}

func NewAppState() *AppState {
	as := &AppState{}
	as.AppCloseSignalChan = make(chan os.Signal, 1)
	as.MetricChans = NewMetric()

	// env
	as.Config = NewConfig()

	// database
	var err error
	as.RawDB, as.BunDB, err = OpenDB(as.Config.GetDatabaseDriver(), as.Config.GetDatabaseDSN())
	if err != nil {
		slog.Error("cannot open database", "driver", as.Config.GetDatabaseDriver(), "error", err)
		os.Exit(1)
	}
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(true),
		bundebug.FromEnv("BUNDEBUG"),
	))

	// public ids
	if as.Hashids, err = hashid.NewCodecs(
		as.Config.GetHashidSalt(),
		as.Config.GetHashidMinLength(),
	); err != nil {
		slog.Error("cannot create hashid codecs", "error", err)
		os.Exit(1)
	}

	// natural language date parser
	as.When = NewWhen()

	return as
}

// OpenDB opens the raw connection pool and wraps it with the matching bun
// dialect.
func OpenDB(driver string, dsn string) (*sql.DB, *bun.DB, error) {
	switch driver {
	case "sqlite":
		rawDB, err := sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("OpenDB: %w", err)
		}
		// sqlite has a single writer; one connection keeps transactions
		// from tripping over each other with SQLITE_BUSY
		rawDB.SetMaxOpenConns(1)
		if err := rawDB.Ping(); err != nil {
			return nil, nil, fmt.Errorf("OpenDB: %w", err)
		}
		return rawDB, bun.NewDB(rawDB, sqlitedialect.New()), nil
	case "postgres":
		rawDB, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("OpenDB: %w", err)
		}
		rawDB.SetMaxIdleConns(8)
		if err := rawDB.Ping(); err != nil {
			return nil, nil, fmt.Errorf("OpenDB: %w", err)
		}
		return rawDB, bun.NewDB(rawDB, pgdialect.New()), nil
	default:
		return nil, nil, fmt.Errorf("OpenDB: unknown driver %q", driver)
	}
}

// CreateGracefulShutdownChan hands out a channel that is closed once the app
// shuts down.
func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	as.gracefulShutdownMu.Lock()
	defer as.gracefulShutdownMu.Unlock()
	ch := make(chan struct{})
	as.gracefulShutdownChans = append(as.gracefulShutdownChans, &ch)
	return &ch
}

func (as *AppState) GracefulShutdown() {
	as.gracefulShutdownMu.Lock()
	for _, ch := range as.gracefulShutdownChans {
		close(*ch)
	}
	as.gracefulShutdownChans = nil
	as.gracefulShutdownMu.Unlock()

	if as.BunDB != nil {
		if err := as.BunDB.Close(); err != nil {
			slog.Warn("can't close database", "error", err)
		}
	}
}
