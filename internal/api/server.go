package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/inkwell-cms/inkwell/internal/audit"
	"github.com/inkwell-cms/inkwell/internal/auth"
	"github.com/inkwell-cms/inkwell/internal/content"
	"github.com/inkwell-cms/inkwell/internal/infrastructure/config"
	"github.com/inkwell-cms/inkwell/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      *config.Config
	Logger      *logging.Logger
	Auth        *auth.Service
	UserRepo    auth.UserRepository
	SectionRepo content.SectionRepository
	PostRepo    content.PostRepository
	AuditRepo   audit.Repository // optional; nil disables the audit trail
	Version     string
}

// Server is the HTTP API server.
type Server struct {
	cfg         *config.Config
	logger      *logging.Logger
	authService *auth.Service
	userRepo    auth.UserRepository
	sectionRepo content.SectionRepository
	postRepo    content.PostRepository
	auditRepo   audit.Repository
	auditCh     chan *audit.Event
	version     string
	server      *http.Server
	cancel      context.CancelFunc
}

// New creates a new API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("auth service is required")
	}
	if deps.UserRepo == nil || deps.SectionRepo == nil || deps.PostRepo == nil {
		return nil, fmt.Errorf("user, section and post repositories are required")
	}

	s := &Server{
		cfg:         deps.Config,
		logger:      deps.Logger,
		authService: deps.Auth,
		userRepo:    deps.UserRepo,
		sectionRepo: deps.SectionRepo,
		postRepo:    deps.PostRepo,
		auditRepo:   deps.AuditRepo,
		version:     deps.Version,
	}
	if s.auditRepo != nil {
		s.auditCh = make(chan *audit.Event, auditChanSize)
	}

	return s, nil
}

// Start begins listening for HTTP connections.
//
// It builds the router, starts the audit drain goroutine, and launches the
// HTTP listener in the background. Stop the server with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.auditRepo != nil {
		go s.drainAuditEvents(srvCtx)
	}

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       s.cfg.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.ReadTimeout(),
		WriteTimeout:      s.cfg.WriteTimeout(),
		IdleTimeout:       s.cfg.IdleTimeout(),
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server, waiting up to 10 seconds for
// in-flight requests to complete.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
