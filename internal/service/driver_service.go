package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Tomas5220/f1-api/internal/cache"
	"github.com/Tomas5220/f1-api/internal/models"
	"github.com/Tomas5220/f1-api/internal/repository"
)

const (
	birthDateLayout = "2006-01-02"

	msgNoDrivers         = "No se encontraron pilotos."
	msgDriverNotFound    = "Piloto no encontrado."
	msgDriverMissing     = "El piloto no existe."
	msgNoRaces           = "No se encontraron carreras para este piloto."
	msgNoSeasonResults   = "No se encontraron resultados para esta temporada."
	msgDuplicateDriverID = "Ya existe un piloto con este identificador"
	msgInvalidBirthDate  = "La fecha de nacimiento no es válida"
)

// CreateDriverRequest is the payload for registering a driver
type CreateDriverRequest struct {
	Number     int    `json:"numero_piloto" validate:"required,min=1,max=99"`
	FullName   string `json:"nombre_completo" validate:"required,max=100"`
	BirthDate  string `json:"fecha_nacimiento" validate:"required"`
	BirthPlace string `json:"lugar_nacimiento" validate:"required"`
	Country    string `json:"pais" validate:"required,max=3"`
}

// DriverService manages drivers and their race history
type DriverService struct {
	repo     repository.DriverRepository
	cache    cache.Store
	validate *validator.Validate
	log      *logrus.Entry
	now      func() time.Time
}

// NewDriverService creates a DriverService
func NewDriverService(repo repository.DriverRepository, store cache.Store, log *logrus.Logger) *DriverService {
	return &DriverService{
		repo:     repo,
		cache:    store,
		validate: validator.New(),
		log:      log.WithField("component", "drivers"),
		now:      time.Now,
	}
}

// List returns every driver
func (s *DriverService) List(ctx context.Context) ([]*models.Driver, error) {
	return readThrough(ctx, s.cache, s.log, cache.DriversAllKey, func(ctx context.Context) ([]*models.Driver, error) {
		drivers, err := s.repo.List(ctx)
		if err != nil {
			return nil, models.NewPersistenceError(msgInternal, err)
		}
		if len(drivers) == 0 {
			return nil, models.NewNotFoundError(msgNoDrivers, nil)
		}
		return drivers, nil
	})
}

// Get returns one driver
func (s *DriverService) Get(ctx context.Context, id string) (*models.Driver, error) {
	return readThrough(ctx, s.cache, s.log, cache.DriverKey(id), func(ctx context.Context) (*models.Driver, error) {
		driver, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewNotFoundError(msgDriverNotFound, err)
		}
		if err != nil {
			return nil, models.NewPersistenceError(msgInternal, err)
		}
		return driver, nil
	})
}

// Create registers a driver under a generated three-letter code
func (s *DriverService) Create(ctx context.Context, req *CreateDriverRequest) (*models.Driver, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, models.NewValidationError(msgIncomplete, err)
	}
	birth, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		return nil, models.NewValidationError(msgInvalidBirthDate, err)
	}

	taken, err := s.repo.ExistsByFullName(ctx, req.FullName)
	if err != nil {
		return nil, models.NewPersistenceError(msgInternal, err)
	}
	if taken {
		return nil, models.NewValidationError(
			fmt.Sprintf("Ya existe un piloto registrado con el nombre completo %s.", req.FullName), nil)
	}

	id, err := UniqueDriverID(ctx, GenerateDriverID(req.FullName), s.repo.ExistsByID)
	if err != nil {
		return nil, models.NewPersistenceError(msgInternal, err)
	}

	driver := &models.Driver{
		ID:          id,
		Number:      req.Number,
		FullName:    req.FullName,
		CountryCode: req.Country,
		BirthDate:   birth,
		BirthPlace:  BirthCity(req.BirthPlace),
		Age:         AgeAt(birth, s.now()),
	}
	if err := s.repo.Create(ctx, driver); err != nil {
		if errors.Is(err, models.ErrDuplicateKey) {
			return nil, models.NewConflictError(msgDuplicateDriverID, err)
		}
		return nil, models.NewPersistenceError(msgInternal, err)
	}

	if err := s.cache.Set(ctx, cache.DriverKey(id), driver, 0); err != nil {
		s.log.WithError(err).Warn("Cache write failed")
	}
	invalidate(ctx, s.cache, s.log, cache.DriversAllKey)
	s.log.WithFields(logrus.Fields{"driver_id": id, "full_name": driver.FullName}).Info("Driver created")
	return driver, nil
}

// Races returns a driver's race history
func (s *DriverService) Races(ctx context.Context, id string) ([]*models.DriverRace, error) {
	return readThrough(ctx, s.cache, s.log, cache.DriverRacesKey(id), func(ctx context.Context) ([]*models.DriverRace, error) {
		if err := s.requireDriver(ctx, id); err != nil {
			return nil, err
		}
		races, err := s.repo.ListRaces(ctx, id)
		if err != nil {
			return nil, models.NewPersistenceError(msgInternal, err)
		}
		if len(races) == 0 {
			return nil, models.NewNotFoundError(msgNoRaces, nil)
		}
		return races, nil
	})
}

// SeasonResults returns a driver's standings rows for one season
func (s *DriverService) SeasonResults(ctx context.Context, id string, season int) ([]*models.DriverSeasonStanding, error) {
	return readThrough(ctx, s.cache, s.log, cache.DriverSeasonKey(id, season), func(ctx context.Context) ([]*models.DriverSeasonStanding, error) {
		if err := s.requireDriver(ctx, id); err != nil {
			return nil, err
		}
		rows, err := s.repo.ListSeasonStandings(ctx, id, season)
		if err != nil {
			return nil, models.NewPersistenceError(msgInternal, err)
		}
		if len(rows) == 0 {
			return nil, models.NewNotFoundError(msgNoSeasonResults, nil)
		}
		return rows, nil
	})
}

// Delete removes a driver
func (s *DriverService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return models.NewNotFoundError(msgDriverNotFound, err)
	}
	if err != nil {
		return models.NewPersistenceError(msgInternal, err)
	}

	invalidate(ctx, s.cache, s.log, cache.DriverKey(id), cache.DriversAllKey, cache.DriverRacesKey(id))
	s.log.WithField("driver_id", id).Info("Driver deleted")
	return nil
}

func (s *DriverService) requireDriver(ctx context.Context, id string) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return models.NewPersistenceError(msgInternal, err)
	}
	if !exists {
		return models.NewNotFoundError(msgDriverMissing, nil)
	}
	return nil
}
