package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Driver is a racing driver identified by a three-letter code
type Driver struct {
	ID            string    `db:"id_piloto" json:"id_piloto"`
	Number        int       `db:"numero_piloto" json:"numero_piloto"`
	FullName      string    `db:"nombre_completo" json:"nombre_completo"`
	CountryCode   string    `db:"codigo_pais" json:"codigo_pais"`
	BirthDate     time.Time `db:"fecha_nacimiento" json:"fecha_nacimiento"`
	BirthPlace    string    `db:"lugar_nacimiento" json:"lugar_nacimiento"`
	Age           int       `db:"edad" json:"edad"`
	Podiums       int       `db:"podios" json:"podios"`
	GrandsPrix    int       `db:"grandes_premios" json:"grandes_premios"`
	Championships int       `db:"campeonatos_mundiales" json:"campeonatos_mundiales"`
}

// DriverRace is one race entry in a driver's history
type DriverRace struct {
	ID            int64           `db:"id_carrera" json:"id_carrera"`
	DriverID      string          `db:"id_piloto" json:"id_piloto"`
	EventID       int64           `db:"id_gp" json:"id_gp"`
	Season        int             `db:"temporada" json:"temporada"`
	TeamID        string          `db:"id_equipo" json:"id_equipo"`
	StartPosition *int            `db:"posicion_salida" json:"posicion_salida"`
	FinalPosition *int            `db:"posicion_final" json:"posicion_final"`
	Points        decimal.Decimal `db:"puntos" json:"puntos"`
}

// DriverSeasonStanding is a driver's standings row for one season
type DriverSeasonStanding struct {
	Season   int             `db:"temporada" json:"temporada"`
	DriverID string          `db:"id_piloto" json:"id_piloto"`
	Position *int            `db:"posicion" json:"posicion"`
	Points   decimal.Decimal `db:"puntos" json:"puntos"`
	Wins     int             `db:"victorias" json:"victorias"`
	Podiums  int             `db:"podios" json:"podios"`
}
