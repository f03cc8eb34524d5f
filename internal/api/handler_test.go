package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Tomas5220/f1-api/internal/betting"
	"github.com/Tomas5220/f1-api/internal/config"
	"github.com/Tomas5220/f1-api/internal/models"
	"github.com/Tomas5220/f1-api/internal/service"
)

type MockWagerService struct {
	mock.Mock
}

func (m *MockWagerService) Place(ctx context.Context, req *betting.WagerRequest) (*betting.Settlement, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*betting.Settlement), args.Error(1)
}

func (m *MockWagerService) History(ctx context.Context, username string) ([]*models.Wager, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Wager), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, req *service.CreateUserRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) TopUp(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, username, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserService) Invalidate(ctx context.Context, username string) {
	m.Called(ctx, username)
}

type MockDriverService struct {
	mock.Mock
}

func (m *MockDriverService) List(ctx context.Context) ([]*models.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Driver), args.Error(1)
}

func (m *MockDriverService) Get(ctx context.Context, id string) (*models.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Driver), args.Error(1)
}

func (m *MockDriverService) Create(ctx context.Context, req *service.CreateDriverRequest) (*models.Driver, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Driver), args.Error(1)
}

func (m *MockDriverService) Races(ctx context.Context, id string) ([]*models.DriverRace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DriverRace), args.Error(1)
}

func (m *MockDriverService) SeasonResults(ctx context.Context, id string, season int) ([]*models.DriverSeasonStanding, error) {
	args := m.Called(ctx, id, season)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DriverSeasonStanding), args.Error(1)
}

func (m *MockDriverService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type testAPI struct {
	wagers  *MockWagerService
	users   *MockUserService
	drivers *MockDriverService
	handler http.Handler
}

func newTestAPI(t *testing.T, cfg config.ServerConfig) *testAPI {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	if cfg.BasePath == "" {
		cfg.BasePath = "/f1_api/v1"
	}
	a := &testAPI{
		wagers:  new(MockWagerService),
		users:   new(MockUserService),
		drivers: new(MockDriverService),
	}
	s := NewServer(cfg, Services{Wagers: a.wagers, Users: a.users, Drivers: a.drivers}, log)
	a.handler = s.Handler()
	return a
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/f1_api/v1"+path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func settledWager(won bool) *betting.Settlement {
	driver := "LEC"
	w := &models.Wager{
		Username: "tifosi",
		Category: models.CategoryWinner,
		DriverID: &driver,
		Stake:    decimal.RequireFromString("100"),
		Odds:     decimal.RequireFromString("6.50"),
		Won:      won,
	}
	balance := decimal.RequireFromString("1550")
	if !won {
		balance = decimal.RequireFromString("900")
	}
	return &betting.Settlement{Wager: w, NewBalance: balance}
}

func TestPlaceWager(t *testing.T) {
	body := `{"id_piloto":"LEC","id_gp":1107,"temporada":2024,"monto_apostado":100,"nombre_usuario":"tifosi","tipo_apuesta":"Ganador"}`

	t.Run("won", func(t *testing.T) {
		a := newTestAPI(t, config.ServerConfig{})
		a.wagers.On("Place", mock.Anything, mock.MatchedBy(func(r *betting.WagerRequest) bool {
			return r.DriverID == "LEC" && r.EventID == 1107 && r.Stake.Equal(decimal.NewFromInt(100))
		})).Return(settledWager(true), nil)
		a.users.On("Invalidate", mock.Anything, "tifosi").Return()

		rec := a.do(http.MethodPost, "/bet", body)
		require.Equal(t, http.StatusOK, rec.Code)

		got := decodeMap(t, rec)
		assert.Equal(t, "¡Felicidades, ganaste la apuesta!", got["message"])
		assert.Equal(t, 650.0, got["saldoGanado"])
		assert.Equal(t, "1550.00", got["nuevoSaldo"])
		a.users.AssertCalled(t, "Invalidate", mock.Anything, "tifosi")
	})

	t.Run("lost", func(t *testing.T) {
		a := newTestAPI(t, config.ServerConfig{})
		a.wagers.On("Place", mock.Anything, mock.Anything).Return(settledWager(false), nil)
		a.users.On("Invalidate", mock.Anything, "tifosi").Return()

		rec := a.do(http.MethodPost, "/bet", body)
		require.Equal(t, http.StatusOK, rec.Code)

		got := decodeMap(t, rec)
		assert.Equal(t, "Lo siento, perdiste la apuesta.", got["message"])
		assert.Equal(t, 100.0, got["monto_perdido"])
		assert.Equal(t, "900.00", got["nuevoSaldo"])
		assert.NotContains(t, got, "saldoGanado")
	})
}

func TestPlaceWagerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", models.NewValidationError("Saldo insuficiente para realizar la apuesta", nil), http.StatusBadRequest, "Saldo insuficiente para realizar la apuesta"},
		{"not found", models.NewNotFoundError("Resultado de la carrera no encontrado", nil), http.StatusNotFound, "Resultado de la carrera no encontrado"},
		{"integrity", models.NewDataIntegrityError("metric 80 not present", nil), http.StatusInternalServerError, msgInternal},
		{"persistence", models.NewPersistenceError(msgInternal, errors.New("tx aborted")), http.StatusInternalServerError, msgInternal},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, msgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAPI(t, config.ServerConfig{})
			a.wagers.On("Place", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := a.do(http.MethodPost, "/bet", `{"id_piloto":"LEC","temporada":2024,"monto_apostado":10,"nombre_usuario":"tifosi","tipo_apuesta":"Ganador"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeMap(t, rec)["message"])
			a.users.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
		})
	}
}

func TestPlaceWagerMalformedBody(t *testing.T) {
	a := newTestAPI(t, config.ServerConfig{})
	rec := a.do(http.MethodPost, "/bet", `{"monto_apostado":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgMalformedBody, decodeMap(t, rec)["message"])
	a.wagers.AssertNotCalled(t, "Place", mock.Anything, mock.Anything)
}

func TestUserRoutes(t *testing.T) {
	a := newTestAPI(t, config.ServerConfig{})
	amount := decimal.RequireFromString("25.50")

	a.users.On("Create", mock.Anything, &service.CreateUserRequest{Username: "tifosi", Name: "Tifo", Email: "t@example.com"}).
		Return(&models.User{Username: "tifosi"}, nil)
	a.users.On("List", mock.Anything).Return(nil, models.NewNotFoundError("No se encontraron usuarios.", nil))
	a.users.On("Get", mock.Anything, "tifosi").Return(&models.User{Username: "tifosi", Balance: amount}, nil)
	a.users.On("TopUp", mock.Anything, "tifosi", amount).Return(decimal.RequireFromString("125.50"), nil)
	a.users.On("Delete", mock.Anything, "ghost").Return(models.NewNotFoundError("Usuario no encontrado", nil))

	rec := a.do(http.MethodPost, "/user", `{"nombre_usuario":"tifosi","nombre":"Tifo","email":"t@example.com"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, msgUserCreated, decodeMap(t, rec)["message"])

	rec = a.do(http.MethodGet, "/user", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No se encontraron usuarios.", decodeMap(t, rec)["message"])

	rec = a.do(http.MethodGet, "/user/tifosi", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tifosi", decodeMap(t, rec)["nombre_usuario"])

	rec = a.do(http.MethodPut, "/user/balance", `{"nombre_usuario":"tifosi","monto":25.50}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	got := decodeMap(t, rec)
	assert.Equal(t, msgBalanceUpdated, got["message"])
	assert.Equal(t, 125.5, got["saldo_actual"])

	rec = a.do(http.MethodDelete, "/user/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDriverRoutes(t *testing.T) {
	a := newTestAPI(t, config.ServerConfig{})

	a.drivers.On("Get", mock.Anything, "VER").Return(&models.Driver{ID: "VER", FullName: "Max Verstappen"}, nil)
	a.drivers.On("Create", mock.Anything, mock.Anything).Return(nil, models.NewConflictError("Ya existe un piloto con este identificador", nil))
	a.drivers.On("Races", mock.Anything, "NOB").Return(nil, models.NewNotFoundError("El piloto no existe.", nil))
	a.drivers.On("SeasonResults", mock.Anything, "VER", 2023).Return([]*models.DriverSeasonStanding{{Season: 2023, DriverID: "VER", Wins: 19}}, nil)
	a.drivers.On("Delete", mock.Anything, "VER").Return(nil)

	rec := a.do(http.MethodGet, "/driver/VER", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Max Verstappen", decodeMap(t, rec)["nombre_completo"])

	rec = a.do(http.MethodPost, "/driver", `{"numero_piloto":1,"nombre_completo":"Max Verstappen"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodGet, "/driver/NOB/carreras", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "El piloto no existe.", decodeMap(t, rec)["message"])

	rec = a.do(http.MethodGet, "/driver/VER/temporadas/2023", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodGet, "/driver/VER/temporadas/last", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidSeason, decodeMap(t, rec)["message"])

	rec = a.do(http.MethodDelete, "/driver/VER", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgDriverDeleted, decodeMap(t, rec)["message"])
}

func TestUnknownRoute(t *testing.T) {
	a := newTestAPI(t, config.ServerConfig{})
	rec := a.do(http.MethodGet, "/season/2024", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgNotFound, decodeMap(t, rec)["message"])
}

func TestRateLimit(t *testing.T) {
	a := newTestAPI(t, config.ServerConfig{RateLimitRPS: 0.001, RateLimitBurst: 1})
	a.drivers.On("List", mock.Anything).Return([]*models.Driver{{ID: "VER"}}, nil)

	first := a.do(http.MethodGet, "/driver", "")
	second := a.do(http.MethodGet, "/driver", "")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, msgTooManyRequests, decodeMap(t, second)["message"])
}

func TestPanicRecovered(t *testing.T) {
	a := newTestAPI(t, config.ServerConfig{})
	a.drivers.On("List", mock.Anything).Run(func(mock.Arguments) { panic("nil map") })

	rec := a.do(http.MethodGet, "/driver", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	a := newTestAPI(t, config.ServerConfig{AllowedOrigins: []string{"https://f1.example.com"}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/f1_api/v1/bet", nil)
	req.Header.Set("Origin", "https://f1.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	a.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://f1.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(models.NewValidationError("x", nil)))
	assert.Equal(t, http.StatusNotFound, statusFor(models.NewNotFoundError("x", nil)))
	assert.Equal(t, http.StatusConflict, statusFor(models.NewConflictError("x", nil)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(models.NewDataIntegrityError("x", nil)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(models.NewPersistenceError("x", nil)))
}
