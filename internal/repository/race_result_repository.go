package repository

import (
	"context"
	"fmt"

	"github.com/Tomas5220/f1-api/internal/database"
	"github.com/Tomas5220/f1-api/internal/models"
)

// PostgresRaceResultRepository implements RaceResultRepository for PostgreSQL
type PostgresRaceResultRepository struct {
	db *database.DB
}

// NewPostgresRaceResultRepository creates a new race result repository
func NewPostgresRaceResultRepository(db *database.DB) RaceResultRepository {
	return &PostgresRaceResultRepository{db: db}
}

// GetByEventID retrieves the recorded result of a grand prix
func (r *PostgresRaceResultRepository) GetByEventID(ctx context.Context, eventID int64) (*models.RaceResult, error) {
	query := `
		SELECT id_gp, ganador, segundo_puesto, tercer_puesto, vuelta_rapida, pole_position, equipo_ganador
		FROM f1_resultados_gp WHERE id_gp = $1
	`

	result := &models.RaceResult{}
	err := r.db.GetPool().QueryRow(ctx, query, eventID).Scan(
		&result.EventID, &result.Winner, &result.SecondPlace, &result.ThirdPlace,
		&result.FastestLap, &result.PolePosition, &result.WinningTeam,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get race result: %w", mapError(err))
	}

	return result, nil
}
