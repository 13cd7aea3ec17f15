package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/notekeeper/internal/client/services"
	"github.com/dmitrijs2005/notekeeper/internal/client/store"
	"github.com/dmitrijs2005/notekeeper/internal/filex"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Pinger checks whether the server is reachable.
type Pinger interface {
	Check(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	pinger Pinger
	closer io.Closer

	gate  *services.SessionGate
	notes *services.NoteService
	prefs *store.Prefs

	reader *bufio.Reader
	out    io.Writer
	dark   bool

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the local database under the configured data directory and
// builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stderr, slog.LevelWarn)

	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, client.DatabasePath(dir))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	sessions := store.NewSessionStore(db)
	remote := client.NewHTTPClient(c.ServerURL, c.RequestTimeout, sessions, logger)

	pinger, err := client.NewHealthChecker(c.HealthAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := newApp(c, db, remote, sessions, pinger, os.Stdin, os.Stdout, logger)
	a.closer = pinger
	if err := a.gate.Restore(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return a, nil
}

func newApp(c *config.Config, db *sql.DB, remote client.Remote, sessions services.SessionPersister, pinger Pinger, in io.Reader, out io.Writer, l logging.Logger) *App {
	repo := metadata.NewSQLiteRepository(db)
	gate := services.NewSessionGate(remote, sessions, l)

	return &App{
		config: c,
		logger: l,
		db:     db,
		pinger: pinger,
		gate:   gate,
		notes:  services.NewNoteService(remote, store.NewNoteStore(repo, l), gate, l),
		prefs:  store.NewPrefs(repo),
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run blocks until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.Root(ctx)
}

func (a *App) Close() error {
	if a.closer != nil {
		_ = a.closer.Close()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.logger.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) CurrentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// StartOnlineStatusWatcher checks the server every interval until ctx is
// done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.checkOnline(ctx)
	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	if err := a.pinger.Check(ctx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}
