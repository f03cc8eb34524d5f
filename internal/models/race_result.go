package models

import (
	"github.com/shopspring/decimal"
)

// RaceResult holds the recorded winner of every category for one grand prix.
// A nil field means that category has not been recorded.
type RaceResult struct {
	EventID      int64   `db:"id_gp" json:"id_gp"`
	Winner       *string `db:"ganador" json:"ganador"`
	SecondPlace  *string `db:"segundo_puesto" json:"segundo_puesto"`
	ThirdPlace   *string `db:"tercer_puesto" json:"tercer_puesto"`
	FastestLap   *string `db:"vuelta_rapida" json:"vuelta_rapida"`
	PolePosition *string `db:"pole_position" json:"pole_position"`
	WinningTeam  *string `db:"equipo_ganador" json:"equipo_ganador"`
}

// WinnerFor returns the recorded winner for category c
func (r *RaceResult) WinnerFor(c Category) (string, bool) {
	var field *string
	switch c {
	case CategoryWinner:
		field = r.Winner
	case CategorySecondPlace:
		field = r.SecondPlace
	case CategoryThirdPlace:
		field = r.ThirdPlace
	case CategoryFastestLap:
		field = r.FastestLap
	case CategoryPolePosition:
		field = r.PolePosition
	case CategoryWinningTeam:
		field = r.WinningTeam
	}
	if field == nil || *field == "" {
		return "", false
	}
	return *field, true
}

// StandingsEntry is one participant's ranking metric in a season: podium
// count for drivers, cumulative points for teams.
type StandingsEntry struct {
	Season        int             `json:"temporada"`
	Entity        EntityType      `json:"entidad"`
	ParticipantID string          `json:"id"`
	Metric        decimal.Decimal `json:"valor"`
}
