package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Tomas5220/f1-api/internal/cache"
	"github.com/Tomas5220/f1-api/internal/logger"
	"github.com/Tomas5220/f1-api/internal/models"
	"github.com/Tomas5220/f1-api/internal/repository"
)

const (
	msgIncomplete        = "Datos incompletos"
	msgInternal          = "Error interno del servidor"
	msgUserNotFound      = "Usuario no encontrado"
	msgNoUsers           = "No se encontraron usuarios."
	msgEmailTaken        = "El correo electrónico ya está registrado"
	msgUsernameTaken     = "El nombre de usuario ya está registrado"
	msgInvalidEmail      = "El correo electrónico no es válido"
	msgAmountNotPositive = "El monto debe ser mayor a cero"
)

// CreateUserRequest is the payload for registering a bettor
type CreateUserRequest struct {
	Username string `json:"nombre_usuario" validate:"required,max=50"`
	Name     string `json:"nombre" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
}

// UserService manages bettor accounts
type UserService struct {
	repo     repository.UserRepository
	cache    cache.Store
	validate *validator.Validate
	audit    *logger.AuditLogger
	log      *logrus.Entry
}

// NewUserService creates a UserService
func NewUserService(repo repository.UserRepository, store cache.Store, log *logrus.Logger) *UserService {
	return &UserService{
		repo:     repo,
		cache:    store,
		validate: validator.New(),
		audit:    logger.NewAuditLogger(log),
		log:      log.WithField("component", "users"),
	}
}

// Create registers a new bettor with a zero balance
func (s *UserService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Field() == "Email" && verrs[0].Tag() == "email" {
			return nil, models.NewValidationError(msgInvalidEmail, err)
		}
		return nil, models.NewValidationError(msgIncomplete, err)
	}

	usernameTaken, emailTaken, err := s.repo.FindConflicts(ctx, req.Username, req.Email)
	if err != nil {
		return nil, models.NewPersistenceError(msgInternal, err)
	}
	if emailTaken {
		return nil, models.NewValidationError(msgEmailTaken, nil)
	}
	if usernameTaken {
		return nil, models.NewValidationError(msgUsernameTaken, nil)
	}

	user := &models.User{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Balance:  decimal.Zero,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicateKey) {
			return nil, models.NewValidationError(msgUsernameTaken, err)
		}
		return nil, models.NewPersistenceError(msgInternal, err)
	}

	invalidate(ctx, s.cache, s.log, cache.UsersAllKey)
	s.log.WithField("username", user.Username).Info("User created")
	return user, nil
}

// List returns every bettor
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return readThrough(ctx, s.cache, s.log, cache.UsersAllKey, func(ctx context.Context) ([]*models.User, error) {
		users, err := s.repo.List(ctx)
		if err != nil {
			return nil, models.NewPersistenceError(msgInternal, err)
		}
		if len(users) == 0 {
			return nil, models.NewNotFoundError(msgNoUsers, nil)
		}
		return users, nil
	})
}

// Get returns one bettor
func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	return readThrough(ctx, s.cache, s.log, cache.UserKey(username), func(ctx context.Context) (*models.User, error) {
		user, err := s.repo.GetByUsername(ctx, username)
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewNotFoundError(msgUserNotFound, err)
		}
		if err != nil {
			return nil, models.NewPersistenceError(msgInternal, err)
		}
		return user, nil
	})
}

// TopUp credits amount to the bettor and returns the new balance
func (s *UserService) TopUp(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	if username == "" {
		return decimal.Zero, models.NewValidationError(msgIncomplete, nil)
	}
	if !amount.IsPositive() {
		return decimal.Zero, models.NewValidationError(msgAmountNotPositive, nil)
	}

	balance, err := s.repo.AdjustBalance(ctx, username, amount)
	if errors.Is(err, models.ErrNotFound) {
		return decimal.Zero, models.NewNotFoundError(msgUserNotFound, err)
	}
	if err != nil {
		return decimal.Zero, models.NewPersistenceError(msgInternal, fmt.Errorf("failed to top up %s: %w", username, err))
	}

	s.Invalidate(ctx, username)
	s.audit.LogBalanceAdjusted(username, amount, balance, "top_up")
	return balance, nil
}

// Delete removes a bettor and their wagers
func (s *UserService) Delete(ctx context.Context, username string) error {
	err := s.repo.Delete(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return models.NewNotFoundError(msgUserNotFound, err)
	}
	if err != nil {
		return models.NewPersistenceError(msgInternal, err)
	}

	s.Invalidate(ctx, username)
	s.audit.LogAccountDeleted(username)
	return nil
}

// Invalidate drops the cached entries that hold the bettor's balance
func (s *UserService) Invalidate(ctx context.Context, username string) {
	invalidate(ctx, s.cache, s.log, cache.UserKey(username), cache.UsersAllKey)
}
