package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Tomas5220/f1-api/internal/models"
)

// UserRepository defines the interface for user account data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	FindConflicts(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error)
	AdjustBalance(ctx context.Context, username string, delta decimal.Decimal) (decimal.Decimal, error)
	Delete(ctx context.Context, username string) error
}

// DriverRepository defines the interface for driver data access
type DriverRepository interface {
	Create(ctx context.Context, driver *models.Driver) error
	List(ctx context.Context) ([]*models.Driver, error)
	GetByID(ctx context.Context, id string) (*models.Driver, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByFullName(ctx context.Context, fullName string) (bool, error)
	ListRaces(ctx context.Context, id string) ([]*models.DriverRace, error)
	ListSeasonStandings(ctx context.Context, id string, season int) ([]*models.DriverSeasonStanding, error)
	Delete(ctx context.Context, id string) error
}

// StandingsRepository defines read access to season standings
type StandingsRepository interface {
	// GetMetric returns the ranking metric of one participant, or
	// models.ErrNotFound when it has no row for the season.
	GetMetric(ctx context.Context, season int, entity models.EntityType, participantID string) (decimal.Decimal, error)
	// GetPopulation returns every participant's metric for the season,
	// highest first, ties ordered by participant id.
	GetPopulation(ctx context.Context, season int, entity models.EntityType) ([]decimal.Decimal, error)
}

// RaceResultRepository defines read access to recorded race results
type RaceResultRepository interface {
	GetByEventID(ctx context.Context, eventID int64) (*models.RaceResult, error)
}

// WagerRepository defines read access to settled wagers
type WagerRepository interface {
	ListByUsername(ctx context.Context, username string) ([]*models.Wager, error)
}

// Ledger applies balance movements and records wagers atomically
type Ledger interface {
	// Settle runs fn in one transaction; any error rolls every write back.
	Settle(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

// LedgerTx is the set of writes available inside a settlement transaction
type LedgerTx interface {
	// Debit subtracts amount only if the balance covers it. It returns
	// models.ErrInsufficientFunds otherwise and models.ErrNotFound for an
	// unknown user.
	Debit(ctx context.Context, username string, amount decimal.Decimal) (userID int64, balance decimal.Decimal, err error)
	Credit(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error)
	InsertWager(ctx context.Context, wager *models.Wager) error
}
