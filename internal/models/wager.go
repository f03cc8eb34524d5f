package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wager is a settled bet. Outcome is decided at placement, so Won is always set.
type Wager struct {
	ID        uuid.UUID       `db:"id_apuesta" json:"id_apuesta"`
	UserID    int64           `db:"id_usuario" json:"id_usuario"`
	Username  string          `db:"nombre_usuario" json:"nombre_usuario"`
	EventID   int64           `db:"id_gp" json:"id_gp"`
	Season    int             `db:"temporada" json:"temporada"`
	Category  Category        `db:"tipo_apuesta" json:"tipo_apuesta"`
	DriverID  *string         `db:"id_piloto" json:"id_piloto"`
	TeamID    *string         `db:"id_equipo" json:"id_equipo"`
	Stake     decimal.Decimal `db:"monto" json:"monto"`
	Odds      decimal.Decimal `db:"cuota" json:"cuota"`
	Won       bool            `db:"resultado" json:"resultado"`
	PlacedAt  time.Time       `db:"fecha_apuesta" json:"fecha_apuesta"`
}

// SubjectID returns the driver or team the wager names
func (w *Wager) SubjectID() string {
	if w.DriverID != nil {
		return *w.DriverID
	}
	if w.TeamID != nil {
		return *w.TeamID
	}
	return ""
}

// Payout returns the amount credited back for a winning wager, zero otherwise
func (w *Wager) Payout() decimal.Decimal {
	if !w.Won {
		return decimal.Zero
	}
	return w.Stake.Mul(w.Odds)
}

// NetChange returns the balance delta the wager produced
func (w *Wager) NetChange() decimal.Decimal {
	return w.Payout().Sub(w.Stake)
}
