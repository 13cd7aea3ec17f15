// Package server wires configuration, storage and services together and
// runs the HTTP API and the gRPC health endpoint until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"github.com/dmitrijs2005/notekeeper/internal/server/storage"

	gs "github.com/dmitrijs2005/notekeeper/internal/server/grpc"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const startupTimeout = 30 * time.Second

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	userService       *services.UserService
	noteService       *services.NoteService
	attachmentService *services.AttachmentService
}

// NewApp opens the database, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	presigner, err := storage.NewS3Presigner(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	return &App{
		config:            c,
		logger:            logger,
		db:                db,
		userService:       services.NewUserService(db, rm, c),
		noteService:       services.NewNoteService(db, rm),
		attachmentService: services.NewAttachmentService(db, rm, presigner),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.HTTPAddr, app.logger, app.userService, app.noteService, app.attachmentService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHealthServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.HealthAddr, app.logger, app.db)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until both servers have stopped, then closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHealthServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
