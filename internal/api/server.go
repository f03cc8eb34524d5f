// Package api exposes wagers, bettors and drivers over REST.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Tomas5220/f1-api/internal/betting"
	"github.com/Tomas5220/f1-api/internal/config"
	"github.com/Tomas5220/f1-api/internal/models"
	"github.com/Tomas5220/f1-api/internal/service"
)

// WagerService places and lists wagers
type WagerService interface {
	Place(ctx context.Context, req *betting.WagerRequest) (*betting.Settlement, error)
	History(ctx context.Context, username string) ([]*models.Wager, error)
}

// UserService manages bettor accounts
type UserService interface {
	Create(ctx context.Context, req *service.CreateUserRequest) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, username string) (*models.User, error)
	TopUp(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error)
	Delete(ctx context.Context, username string) error
	Invalidate(ctx context.Context, username string)
}

// DriverService manages drivers
type DriverService interface {
	List(ctx context.Context) ([]*models.Driver, error)
	Get(ctx context.Context, id string) (*models.Driver, error)
	Create(ctx context.Context, req *service.CreateDriverRequest) (*models.Driver, error)
	Races(ctx context.Context, id string) ([]*models.DriverRace, error)
	SeasonResults(ctx context.Context, id string, season int) ([]*models.DriverSeasonStanding, error)
	Delete(ctx context.Context, id string) error
}

// Services groups what the handlers call into
type Services struct {
	Wagers  WagerService
	Users   UserService
	Drivers DriverService
}

// Server is the public REST listener
type Server struct {
	cfg     config.ServerConfig
	handler *handler
	http    *http.Server
	log     *logrus.Logger
}

// NewServer builds the router and middleware chain
func NewServer(cfg config.ServerConfig, svc Services, log *logrus.Logger) *Server {
	h := &handler{
		router:  mux.NewRouter(),
		wagers:  svc.Wagers,
		users:   svc.Users,
		drivers: svc.Drivers,
		logger:  log,
	}

	m := &middleware{logger: log}
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		m.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}
	h.initRouter(cfg.BasePath, m)

	s := &Server{cfg: cfg, handler: h, log: log}
	s.http = &http.Server{
		Addr:         cfg.Address(),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}
	return s
}

// Handler returns the full middleware chain around the router
func (s *Server) Handler() http.Handler {
	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(s.log),
		handlers.PrintRecoveryStack(false),
	)
	return recovery(cors(s.handler))
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithFields(logrus.Fields{
			"addr":      s.http.Addr,
			"base_path": s.cfg.BasePath,
		}).Info("API server started")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Trying graceful shutdown of API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("API server stopped")
	return <-errCh
}
