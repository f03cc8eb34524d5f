package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Tomas5220/f1-api/internal/database"
	"github.com/Tomas5220/f1-api/internal/models"
)

// PostgresLedger implements Ledger on a single PostgreSQL transaction
type PostgresLedger struct {
	db *database.DB
}

// NewPostgresLedger creates a new ledger
func NewPostgresLedger(db *database.DB) Ledger {
	return &PostgresLedger{db: db}
}

// Settle runs fn inside a transaction
func (l *PostgresLedger) Settle(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error {
	return l.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &postgresLedgerTx{tx: tx})
	})
}

type postgresLedgerTx struct {
	tx pgx.Tx
}

// Debit decrements the balance only when it covers amount, so concurrent
// wagers from the same account cannot overdraw it.
func (t *postgresLedgerTx) Debit(ctx context.Context, username string, amount decimal.Decimal) (int64, decimal.Decimal, error) {
	query := `
		UPDATE usuarios SET saldo = saldo - $2
		WHERE nombre_usuario = $1 AND saldo >= $2
		RETURNING id_usuario, saldo
	`

	var (
		userID  int64
		balance decimal.Decimal
	)
	err := t.tx.QueryRow(ctx, query, username, amount).Scan(&userID, &balance)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM usuarios WHERE nombre_usuario = $1)`, username).Scan(&exists); err != nil {
			return 0, decimal.Zero, fmt.Errorf("failed to check account: %w", err)
		}
		if !exists {
			return 0, decimal.Zero, models.ErrNotFound
		}
		return 0, decimal.Zero, models.ErrInsufficientFunds
	}
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to debit stake: %w", err)
	}

	return userID, balance, nil
}

// Credit increments the balance by amount
func (t *postgresLedgerTx) Credit(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := t.tx.QueryRow(ctx,
		`UPDATE usuarios SET saldo = saldo + $2 WHERE nombre_usuario = $1 RETURNING saldo`,
		username, amount,
	).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to credit payout: %w", mapError(err))
	}

	return balance, nil
}

// InsertWager records a settled wager
func (t *postgresLedgerTx) InsertWager(ctx context.Context, w *models.Wager) error {
	query := `
		INSERT INTO apuestas (id_apuesta, id_usuario, id_gp, temporada, tipo_apuesta,
		                      id_piloto, id_equipo, monto, cuota, resultado, fecha_apuesta)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := t.tx.Exec(ctx, query,
		w.ID, w.UserID, w.EventID, w.Season, string(w.Category),
		w.DriverID, w.TeamID, w.Stake, w.Odds, w.Won, w.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert wager: %w", mapError(err))
	}

	return nil
}
