package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Tomas5220/f1-api/internal/models"
)

const (
	msgInternal       = "Error interno del servidor"
	msgMalformedBody  = "El cuerpo de la solicitud no es válido"
	msgInvalidSeason  = "La temporada no es válida"
	msgNotFound       = "Recurso no encontrado"
	msgUserCreated    = "Usuario creado con éxito"
	msgUserDeleted    = "Usuario eliminado exitosamente"
	msgBalanceUpdated = "Saldo actualizado exitosamente"
	msgDriverDeleted  = "Piloto eliminado exitosamente."
)

type messageResponse struct {
	Message string `json:"message"`
}

type wagerWonResponse struct {
	Message     string      `json:"message"`
	SaldoGanado json.Number `json:"saldoGanado"`
	Cuota       json.Number `json:"cuota"`
	NuevoSaldo  string      `json:"nuevoSaldo"`
}

type wagerLostResponse struct {
	Message      string      `json:"message"`
	MontoPerdido json.Number `json:"monto_perdido"`
	Cuota        json.Number `json:"cuota"`
	NuevoSaldo   string      `json:"nuevoSaldo"`
}

type balanceRequest struct {
	Username string          `json:"nombre_usuario"`
	Amount   decimal.Decimal `json:"monto"`
}

type balanceResponse struct {
	Message string      `json:"message"`
	Balance json.Number `json:"saldo_actual"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	var (
		verr *models.ValidationError
		nerr *models.NotFoundError
		cerr *models.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &nerr):
		return http.StatusNotFound
	case errors.As(err, &cerr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the caller-facing text of err. Server-side failures
// never leak their cause.
func messageFor(err error) string {
	var (
		verr *models.ValidationError
		nerr *models.NotFoundError
		cerr *models.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &nerr):
		return nerr.Message
	case errors.As(err, &cerr):
		return cerr.Message
	default:
		return msgInternal
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("Request failed")
	}
	writeJSON(w, status, messageResponse{Message: messageFor(err)})
}
