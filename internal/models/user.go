package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a bettor account holding a non-negative balance
type User struct {
	ID           int64           `db:"id_usuario" json:"id_usuario"`
	Username     string          `db:"nombre_usuario" json:"nombre_usuario" validate:"required,max=50"`
	Name         string          `db:"nombre" json:"nombre" validate:"required,max=100"`
	Email        string          `db:"email" json:"email" validate:"required,email"`
	Balance      decimal.Decimal `db:"saldo" json:"saldo"`
	RegisteredAt time.Time       `db:"fecha_registro" json:"fecha_registro"`
}
