package betting

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Tomas5220/f1-api/internal/models"
)

// Caller-facing messages
const (
	msgWon               = "¡Felicidades, ganaste la apuesta!"
	msgLost              = "Lo siento, perdiste la apuesta."
	msgMissingSubject    = "Debe proporcionarse el id_piloto o id_equipo"
	msgBothSubjects      = "Debe proporcionarse solo uno de id_piloto o id_equipo"
	msgIncomplete        = "Datos incompletos"
	msgStakeNotPositive  = "El monto apostado debe ser mayor a cero"
	msgStakePrecision    = "El monto apostado admite como máximo dos decimales"
	msgInvalidCategory   = "Tipo de apuesta no válido"
	msgCategoryMismatch  = "El tipo de apuesta no corresponde al participante indicado"
	msgUserNotFound      = "Usuario no encontrado"
	msgInsufficientFunds = "Saldo insuficiente para realizar la apuesta"
	msgDriverNotFound    = "Piloto o temporada no encontrados"
	msgTeamNotFound      = "Equipo o temporada no encontrados"
	msgResultNotFound    = "Resultado de la carrera no encontrado"
	msgNoWagers          = "No se encontraron apuestas para este usuario."
	msgInternal          = "Error interno del servidor"
)

// WagerRequest is a bettor's wager as received on the wire. Exactly one of
// DriverID and TeamID names the subject.
type WagerRequest struct {
	DriverID string          `json:"id_piloto" validate:"required_without=TeamID,excluded_with=TeamID"`
	TeamID   string          `json:"id_equipo" validate:"required_without=DriverID,excluded_with=DriverID"`
	EventID  int64           `json:"id_gp"`
	Season   int             `json:"temporada" validate:"required"`
	Stake    decimal.Decimal `json:"monto_apostado" validate:"required"`
	Username string          `json:"nombre_usuario" validate:"required"`
	Category string          `json:"tipo_apuesta" validate:"required"`
}

// SubjectID returns the driver or team id named by the request
func (r *WagerRequest) SubjectID() string {
	if r.DriverID != "" {
		return r.DriverID
	}
	return r.TeamID
}

func (r *WagerRequest) subjectEntity() models.EntityType {
	if r.TeamID != "" {
		return models.EntityTeam
	}
	return models.EntityDriver
}

// NewRequestValidator returns a validator that understands decimal fields
func NewRequestValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			if d.IsZero() {
				return ""
			}
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// validateShape checks the request fields that need no lookups and returns
// the parsed category.
func validateShape(v *validator.Validate, req *WagerRequest) (models.Category, error) {
	if err := v.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return "", models.NewValidationError(msgIncomplete, err)
		}
		first := verrs[0]
		switch {
		case first.Tag() == "required_without":
			return "", models.NewValidationError(msgMissingSubject, err)
		case first.Tag() == "excluded_with":
			return "", models.NewValidationError(msgBothSubjects, err)
		default:
			return "", models.NewValidationError(msgIncomplete, err)
		}
	}

	if !req.Stake.IsPositive() {
		return "", models.NewValidationError(msgStakeNotPositive, nil)
	}
	if !req.Stake.Equal(req.Stake.Round(2)) {
		return "", models.NewValidationError(msgStakePrecision, nil)
	}

	category, ok := models.ParseCategory(req.Category)
	if !ok {
		return "", models.NewValidationError(msgInvalidCategory, nil)
	}
	if category.Entity() != req.subjectEntity() {
		return "", models.NewValidationError(msgCategoryMismatch, nil)
	}
	return category, nil
}
