package repository

import (
	"context"
	"fmt"

	"github.com/Tomas5220/f1-api/internal/database"
	"github.com/Tomas5220/f1-api/internal/models"
)

// PostgresWagerRepository implements WagerRepository for PostgreSQL
type PostgresWagerRepository struct {
	db *database.DB
}

// NewPostgresWagerRepository creates a new wager repository
func NewPostgresWagerRepository(db *database.DB) WagerRepository {
	return &PostgresWagerRepository{db: db}
}

// ListByUsername retrieves a user's wagers, newest first
func (w *PostgresWagerRepository) ListByUsername(ctx context.Context, username string) ([]*models.Wager, error) {
	query := `
		SELECT a.id_apuesta, a.id_usuario, u.nombre_usuario, a.id_gp, a.temporada, a.tipo_apuesta,
		       a.id_piloto, a.id_equipo, a.monto, a.cuota, a.resultado, a.fecha_apuesta
		FROM apuestas a
		JOIN usuarios u ON u.id_usuario = a.id_usuario
		WHERE u.nombre_usuario = $1
		ORDER BY a.fecha_apuesta DESC
	`

	rows, err := w.db.GetPool().Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list wagers: %w", err)
	}
	defer rows.Close()

	var wagers []*models.Wager
	for rows.Next() {
		wager := &models.Wager{}
		if err := rows.Scan(
			&wager.ID, &wager.UserID, &wager.Username, &wager.EventID, &wager.Season, &wager.Category,
			&wager.DriverID, &wager.TeamID, &wager.Stake, &wager.Odds, &wager.Won, &wager.PlacedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wager: %w", err)
		}
		wagers = append(wagers, wager)
	}

	return wagers, rows.Err()
}
