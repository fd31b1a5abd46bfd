// Package httpapi exposes the REST API: authentication, projects, tasks,
// dependencies, comments, metrics, attachments, and analytics.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskforge/internal/logging"
	"github.com/dmitrijs2005/taskforge/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address     string
	logger      logging.Logger
	users       *services.UserService
	projects    *services.ProjectService
	tasks       *services.TaskService
	analytics   *services.AnalyticsService
	attachments *services.AttachmentService
	jwtSecret   []byte
}

func NewHTTPServer(address string, l logging.Logger,
	us *services.UserService, ps *services.ProjectService, ts *services.TaskService,
	as *services.AnalyticsService, ats *services.AttachmentService, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:     address,
		logger:      l.With("module", "http_server"),
		users:       us,
		projects:    ps,
		tasks:       ts,
		analytics:   as,
		attachments: ats,
		jwtSecret:   []byte(secretKey),
	}
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
