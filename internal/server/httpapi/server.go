// Package httpapi exposes the note service as a JSON REST API.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// UserService is the account surface used by the handlers.
type UserService interface {
	Register(ctx context.Context, email, username, password string) (*models.AuthResult, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Profile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID, username string) (*models.User, error)
	UserID(token string) (string, error)
}

// NoteService is the note surface used by the handlers. Every call is
// scoped to the authenticated owner.
type NoteService interface {
	List(ctx context.Context, userID string, filter models.ListFilter) ([]*models.Note, error)
	ListTrash(ctx context.Context, userID string) ([]*models.Note, error)
	Get(ctx context.Context, userID, id string) (*models.Note, error)
	Create(ctx context.Context, userID string, in models.NoteInput) (*models.Note, error)
	Update(ctx context.Context, userID, id string, patch models.NotePatch) (*models.Note, error)
	TogglePin(ctx context.Context, userID, id string) (*models.Note, error)
	SoftDelete(ctx context.Context, userID, id string) error
	Restore(ctx context.Context, userID, id string) (*models.Note, error)
	Share(ctx context.Context, userID, noteID, email string, permission models.Permission) (*models.ShareGrant, error)
	ListShares(ctx context.Context, userID, noteID string) ([]*models.ShareGrant, error)
}

type AttachmentService interface {
	Add(ctx context.Context, userID, noteID string, in models.AttachmentInput) (*models.AttachmentUpload, error)
	DownloadURL(ctx context.Context, userID, noteID, attachmentID string) (string, error)
}

const shutdownTimeout = 10 * time.Second

type Server struct {
	address     string
	logger      logging.Logger
	users       UserService
	notes       NoteService
	attachments AttachmentService
}

func NewServer(address string, l logging.Logger, us UserService, ns NoteService, as AttachmentService) *Server {
	return &Server{
		address:     address,
		logger:      l.With("module", "http_server"),
		users:       us,
		notes:       ns,
		attachments: as,
	}
}

// Routes builds the router. Everything except /auth requires a bearer token.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, false, "Route not found")
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)
		r.Post("/refresh", s.refresh)
		r.Post("/logout", s.logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", s.listNotes)
			r.Post("/", s.createNote)
			r.Get("/trash/all", s.listTrash)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getNote)
				r.Put("/", s.updateNote)
				r.Delete("/", s.deleteNote)
				r.Patch("/pin", s.togglePin)
				r.Patch("/restore", s.restoreNote)
				r.Post("/share", s.shareNote)
				r.Get("/shares", s.listShares)
				r.Post("/attachments", s.addAttachment)
				r.Get("/attachments/{attachmentId}", s.attachmentURL)
			})
		})

		r.Get("/user/profile", s.getProfile)
		r.Put("/user/profile", s.updateProfile)
	})

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
