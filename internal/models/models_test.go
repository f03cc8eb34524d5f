package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		label  string
		want   Category
		ok     bool
		entity EntityType
		column string
	}{
		{"Ganador", CategoryWinner, true, EntityDriver, "ganador"},
		{"Segundo Puesto", CategorySecondPlace, true, EntityDriver, "segundo_puesto"},
		{"Tercer Puesto", CategoryThirdPlace, true, EntityDriver, "tercer_puesto"},
		{"Vuelta Rápida", CategoryFastestLap, true, EntityDriver, "vuelta_rapida"},
		{"Pole Position", CategoryPolePosition, true, EntityDriver, "pole_position"},
		{"Equipo Ganador", CategoryWinningTeam, true, EntityTeam, "equipo_ganador"},
		{"Cuarto Puesto", "", false, "", ""},
		{"ganador", "", false, "", ""},
		{"", "", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ParseCategory(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.entity, got.Entity())
			assert.Equal(t, tt.column, got.ResultColumn())
		})
	}
}

func TestCategoriesAreAllValid(t *testing.T) {
	assert.Len(t, Categories, 6)
	for _, c := range Categories {
		assert.True(t, c.Valid(), c.String())
	}
}

func TestWagerPayout(t *testing.T) {
	driver := "VER"
	won := &Wager{DriverID: &driver, Stake: decimal.NewFromInt(100), Odds: decimal.RequireFromString("6.50"), Won: true}
	lost := &Wager{DriverID: &driver, Stake: decimal.NewFromInt(100), Odds: decimal.RequireFromString("6.50")}

	assert.True(t, won.Payout().Equal(decimal.NewFromInt(650)))
	assert.True(t, won.NetChange().Equal(decimal.NewFromInt(550)))
	assert.True(t, lost.Payout().IsZero())
	assert.True(t, lost.NetChange().Equal(decimal.NewFromInt(-100)))
	assert.Equal(t, "VER", won.SubjectID())
}

func TestTypedErrorsUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("settle: %w", NewPersistenceError("failed to settle wager", cause))

	var pe *PersistenceError
	assert.True(t, errors.As(err, &pe))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")

	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))

	nf := NewNotFoundError("Usuario no encontrado", ErrNotFound)
	assert.ErrorIs(t, nf, ErrNotFound)
	assert.Equal(t, "Usuario no encontrado", nf.Message)
}
