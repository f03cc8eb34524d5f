package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Tomas5220/f1-api/internal/database"
	"github.com/Tomas5220/f1-api/internal/models"
)

// standingsSource names the table and columns holding one entity's ranking
type standingsSource struct {
	table    string
	idColumn string
	metric   string
}

func sourceFor(entity models.EntityType) (standingsSource, error) {
	switch entity {
	case models.EntityDriver:
		return standingsSource{table: "f1_clasificaciones_pilotos", idColumn: "id_piloto", metric: "podios"}, nil
	case models.EntityTeam:
		return standingsSource{table: "f1_clasificaciones_equipos", idColumn: "id_equipo", metric: "total_puntos"}, nil
	default:
		return standingsSource{}, fmt.Errorf("unknown standings entity %q", entity)
	}
}

// PostgresStandingsRepository implements StandingsRepository for PostgreSQL
type PostgresStandingsRepository struct {
	db *database.DB
}

// NewPostgresStandingsRepository creates a new standings repository
func NewPostgresStandingsRepository(db *database.DB) StandingsRepository {
	return &PostgresStandingsRepository{db: db}
}

// GetMetric returns the ranking metric of one participant in a season
func (s *PostgresStandingsRepository) GetMetric(ctx context.Context, season int, entity models.EntityType, participantID string) (decimal.Decimal, error) {
	src, err := sourceFor(entity)
	if err != nil {
		return decimal.Zero, err
	}

	query := fmt.Sprintf(`SELECT %s::numeric FROM %s WHERE temporada = $1 AND %s = $2`,
		src.metric, src.table, src.idColumn)

	var metric decimal.Decimal
	if err := s.db.GetPool().QueryRow(ctx, query, season, participantID).Scan(&metric); err != nil {
		return decimal.Zero, fmt.Errorf("failed to get standings metric: %w", mapError(err))
	}

	return metric, nil
}

// GetPopulation returns the season's metrics sorted descending with ties
// broken by participant id
func (s *PostgresStandingsRepository) GetPopulation(ctx context.Context, season int, entity models.EntityType) ([]decimal.Decimal, error) {
	src, err := sourceFor(entity)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s::numeric FROM %s WHERE temporada = $1 ORDER BY %s DESC, %s ASC`,
		src.metric, src.table, src.metric, src.idColumn)

	rows, err := s.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get standings population: %w", err)
	}
	defer rows.Close()

	population := []decimal.Decimal{}
	for rows.Next() {
		var metric decimal.Decimal
		if err := rows.Scan(&metric); err != nil {
			return nil, fmt.Errorf("failed to scan standings metric: %w", err)
		}
		population = append(population, metric)
	}

	return population, rows.Err()
}
