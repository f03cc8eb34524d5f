package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Tomas5220/f1-api/internal/database"
	"github.com/Tomas5220/f1-api/internal/models"
)

const pgUniqueViolation = "23505"

// Repositories holds all repository implementations
type Repositories struct {
	User       UserRepository
	Driver     DriverRepository
	Standings  StandingsRepository
	RaceResult RaceResultRepository
	Wager      WagerRepository
	Ledger     Ledger
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		User:       NewPostgresUserRepository(db),
		Driver:     NewPostgresDriverRepository(db),
		Standings:  NewPostgresStandingsRepository(db),
		RaceResult: NewPostgresRaceResultRepository(db),
		Wager:      NewPostgresWagerRepository(db),
		Ledger:     NewPostgresLedger(db),
	}, nil
}

// mapError translates driver errors into the models sentinels
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", models.ErrDuplicateKey, pgErr.ConstraintName)
	}
	return err
}
