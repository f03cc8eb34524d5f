// Package betting prices, resolves and settles wagers placed against
// recorded grand prix results.
package betting

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Tomas5220/f1-api/internal/models"
	"github.com/Tomas5220/f1-api/internal/repository"
)

// StandingsReader reads ranking metrics and translates storage errors into
// caller-facing ones.
type StandingsReader struct {
	repo repository.StandingsRepository
}

// NewStandingsReader creates a StandingsReader
func NewStandingsReader(repo repository.StandingsRepository) *StandingsReader {
	return &StandingsReader{repo: repo}
}

// Metric returns one participant's ranking metric for the season
func (r *StandingsReader) Metric(ctx context.Context, season int, entity models.EntityType, participantID string) (decimal.Decimal, error) {
	metric, err := r.repo.GetMetric(ctx, season, entity, participantID)
	if errors.Is(err, models.ErrNotFound) {
		return decimal.Zero, models.NewNotFoundError(subjectNotFoundMessage(entity), err)
	}
	if err != nil {
		return decimal.Zero, models.NewPersistenceError(msgInternal,
			fmt.Errorf("failed to read %s standings for %s in %d: %w", entity, participantID, season, err))
	}
	return metric, nil
}

// Population returns every metric of the season, highest first
func (r *StandingsReader) Population(ctx context.Context, season int, entity models.EntityType) ([]decimal.Decimal, error) {
	population, err := r.repo.GetPopulation(ctx, season, entity)
	if err != nil {
		return nil, models.NewPersistenceError(msgInternal,
			fmt.Errorf("failed to read %s standings population for %d: %w", entity, season, err))
	}
	return population, nil
}

func subjectNotFoundMessage(entity models.EntityType) string {
	if entity == models.EntityTeam {
		return msgTeamNotFound
	}
	return msgDriverNotFound
}

// ResultEvaluator decides wager outcomes from recorded race results
type ResultEvaluator struct {
	repo repository.RaceResultRepository
}

// NewResultEvaluator creates a ResultEvaluator
func NewResultEvaluator(repo repository.RaceResultRepository) *ResultEvaluator {
	return &ResultEvaluator{repo: repo}
}

// Resolve reports whether subjectID is the recorded winner of category at
// the event, along with the recorded winner.
func (e *ResultEvaluator) Resolve(ctx context.Context, eventID int64, category models.Category, subjectID string) (bool, string, error) {
	result, err := e.repo.GetByEventID(ctx, eventID)
	if errors.Is(err, models.ErrNotFound) {
		return false, "", models.NewNotFoundError(msgResultNotFound, err)
	}
	if err != nil {
		return false, "", models.NewPersistenceError(msgInternal,
			fmt.Errorf("failed to read result of event %d: %w", eventID, err))
	}

	winner, ok := result.WinnerFor(category)
	if !ok {
		return false, "", models.NewNotFoundError(msgResultNotFound,
			fmt.Errorf("event %d has no %s recorded", eventID, category))
	}
	return winner == subjectID, winner, nil
}
