package repository

import (
	"context"
	"fmt"

	"github.com/Tomas5220/f1-api/internal/database"
	"github.com/Tomas5220/f1-api/internal/models"
)

const driverColumns = `id_piloto, numero_piloto, nombre_completo, codigo_pais, fecha_nacimiento,
	lugar_nacimiento, edad, podios, grandes_premios, campeonatos_mundiales`

// PostgresDriverRepository implements DriverRepository for PostgreSQL
type PostgresDriverRepository struct {
	db *database.DB
}

// NewPostgresDriverRepository creates a new driver repository
func NewPostgresDriverRepository(db *database.DB) DriverRepository {
	return &PostgresDriverRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDriver(row rowScanner) (*models.Driver, error) {
	d := &models.Driver{}
	err := row.Scan(&d.ID, &d.Number, &d.FullName, &d.CountryCode, &d.BirthDate,
		&d.BirthPlace, &d.Age, &d.Podiums, &d.GrandsPrix, &d.Championships)
	return d, err
}

// Create inserts a new driver
func (r *PostgresDriverRepository) Create(ctx context.Context, d *models.Driver) error {
	query := `INSERT INTO f1_pilotos (` + driverColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.GetPool().Exec(ctx, query,
		d.ID, d.Number, d.FullName, d.CountryCode, d.BirthDate,
		d.BirthPlace, d.Age, d.Podiums, d.GrandsPrix, d.Championships,
	)
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", mapError(err))
	}

	return nil
}

// List retrieves every driver
func (r *PostgresDriverRepository) List(ctx context.Context) ([]*models.Driver, error) {
	rows, err := r.db.GetPool().Query(ctx, `SELECT `+driverColumns+` FROM f1_pilotos ORDER BY id_piloto`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	defer rows.Close()

	var drivers []*models.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}

	return drivers, rows.Err()
}

// GetByID retrieves a driver by its three-letter id
func (r *PostgresDriverRepository) GetByID(ctx context.Context, id string) (*models.Driver, error) {
	d, err := scanDriver(r.db.GetPool().QueryRow(ctx, `SELECT `+driverColumns+` FROM f1_pilotos WHERE id_piloto = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get driver: %w", mapError(err))
	}
	return d, nil
}

// ExistsByID reports whether a driver id is taken
func (r *PostgresDriverRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.GetPool().QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM f1_pilotos WHERE id_piloto = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check driver id: %w", err)
	}
	return exists, nil
}

// ExistsByFullName reports whether a driver with that full name is registered
func (r *PostgresDriverRepository) ExistsByFullName(ctx context.Context, fullName string) (bool, error) {
	var exists bool
	err := r.db.GetPool().QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM f1_pilotos WHERE nombre_completo = $1)`, fullName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check driver name: %w", err)
	}
	return exists, nil
}

// ListRaces retrieves the race history of a driver
func (r *PostgresDriverRepository) ListRaces(ctx context.Context, id string) ([]*models.DriverRace, error) {
	query := `
		SELECT id_carrera, id_piloto, id_gp, temporada, id_equipo, posicion_salida, posicion_final, puntos
		FROM f1_carreras
		WHERE id_piloto = $1
		ORDER BY temporada, id_gp
	`

	rows, err := r.db.GetPool().Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list driver races: %w", err)
	}
	defer rows.Close()

	var races []*models.DriverRace
	for rows.Next() {
		race := &models.DriverRace{}
		if err := rows.Scan(&race.ID, &race.DriverID, &race.EventID, &race.Season, &race.TeamID,
			&race.StartPosition, &race.FinalPosition, &race.Points); err != nil {
			return nil, fmt.Errorf("failed to scan driver race: %w", err)
		}
		races = append(races, race)
	}

	return races, rows.Err()
}

// ListSeasonStandings retrieves a driver's standings rows for one season
func (r *PostgresDriverRepository) ListSeasonStandings(ctx context.Context, id string, season int) ([]*models.DriverSeasonStanding, error) {
	query := `
		SELECT temporada, id_piloto, posicion, puntos, victorias, podios
		FROM f1_clasificaciones_pilotos
		WHERE id_piloto = $1 AND temporada = $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, id, season)
	if err != nil {
		return nil, fmt.Errorf("failed to list driver season standings: %w", err)
	}
	defer rows.Close()

	var standings []*models.DriverSeasonStanding
	for rows.Next() {
		s := &models.DriverSeasonStanding{}
		if err := rows.Scan(&s.Season, &s.DriverID, &s.Position, &s.Points, &s.Wins, &s.Podiums); err != nil {
			return nil, fmt.Errorf("failed to scan driver season standing: %w", err)
		}
		standings = append(standings, s)
	}

	return standings, rows.Err()
}

// Delete removes a driver and its dependent rows
func (r *PostgresDriverRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.GetPool().Exec(ctx, `DELETE FROM f1_pilotos WHERE id_piloto = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
