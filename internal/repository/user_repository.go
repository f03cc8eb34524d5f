package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Tomas5220/f1-api/internal/database"
	"github.com/Tomas5220/f1-api/internal/models"
)

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *database.DB
}

// NewPostgresUserRepository creates a new user repository
func NewPostgresUserRepository(db *database.DB) UserRepository {
	return &PostgresUserRepository{db: db}
}

// Create inserts a new user with a zero balance
func (u *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO usuarios (nombre_usuario, nombre, email, saldo)
		VALUES ($1, $2, $3, 0)
		RETURNING id_usuario, saldo, fecha_registro
	`

	err := u.db.GetPool().QueryRow(ctx, query, user.Username, user.Name, user.Email).
		Scan(&user.ID, &user.Balance, &user.RegisteredAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", mapError(err))
	}

	return nil
}

// List retrieves every user ordered by registration
func (u *PostgresUserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT id_usuario, nombre_usuario, nombre, email, saldo, fecha_registro
		FROM usuarios
		ORDER BY id_usuario
	`

	rows, err := u.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Name, &user.Email, &user.Balance, &user.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// GetByUsername retrieves a user by username
func (u *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id_usuario, nombre_usuario, nombre, email, saldo, fecha_registro
		FROM usuarios WHERE nombre_usuario = $1
	`

	user := &models.User{}
	err := u.db.GetPool().QueryRow(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.Name, &user.Email, &user.Balance, &user.RegisteredAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", mapError(err))
	}

	return user, nil
}

// FindConflicts reports whether username or email are already registered
func (u *PostgresUserRepository) FindConflicts(ctx context.Context, username, email string) (bool, bool, error) {
	query := `
		SELECT
			EXISTS (SELECT 1 FROM usuarios WHERE nombre_usuario = $1),
			EXISTS (SELECT 1 FROM usuarios WHERE email = $2)
	`

	var usernameTaken, emailTaken bool
	if err := u.db.GetPool().QueryRow(ctx, query, username, email).Scan(&usernameTaken, &emailTaken); err != nil {
		return false, false, fmt.Errorf("failed to check user conflicts: %w", err)
	}

	return usernameTaken, emailTaken, nil
}

// AdjustBalance adds delta to the user's balance and returns the result
func (u *PostgresUserRepository) AdjustBalance(ctx context.Context, username string, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE usuarios SET saldo = saldo + $2
		WHERE nombre_usuario = $1 AND saldo + $2 >= 0
		RETURNING saldo
	`

	var balance decimal.Decimal
	err := u.db.GetPool().QueryRow(ctx, query, username, delta).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to adjust balance: %w", mapError(err))
	}

	return balance, nil
}

// Delete removes a user and, through the foreign key, their wagers
func (u *PostgresUserRepository) Delete(ctx context.Context, username string) error {
	tag, err := u.db.GetPool().Exec(ctx, `DELETE FROM usuarios WHERE nombre_usuario = $1`, username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
