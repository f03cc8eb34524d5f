package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Tomas5220/f1-api/internal/betting"
)

type handler struct {
	router  *mux.Router
	wagers  WagerService
	users   UserService
	drivers DriverService
	logger  *logrus.Logger
}

type middlewareDispatcher interface {
	populate() []mux.MiddlewareFunc
}

func (h *handler) initRouter(basePath string, m middlewareDispatcher) {
	api := h.router.PathPrefix(basePath).Subrouter()
	api.Use(m.populate()...)

	api.HandleFunc("/bet", h.placeWager).Methods(http.MethodPost)
	api.HandleFunc("/bet/{nombre_usuario}", h.listWagers).Methods(http.MethodGet)

	api.HandleFunc("/user", h.createUser).Methods(http.MethodPost)
	api.HandleFunc("/user", h.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/user/balance", h.updateBalance).Methods(http.MethodPut)
	api.HandleFunc("/user/{nombre_usuario}", h.getUser).Methods(http.MethodGet)
	api.HandleFunc("/user/{nombre_usuario}", h.deleteUser).Methods(http.MethodDelete)

	api.HandleFunc("/driver", h.listDrivers).Methods(http.MethodGet)
	api.HandleFunc("/driver", h.createDriver).Methods(http.MethodPost)
	api.HandleFunc("/driver/{id_piloto}", h.getDriver).Methods(http.MethodGet)
	api.HandleFunc("/driver/{id_piloto}", h.deleteDriver).Methods(http.MethodDelete)
	api.HandleFunc("/driver/{id_piloto}/carreras", h.driverRaces).Methods(http.MethodGet)
	api.HandleFunc("/driver/{id_piloto}/temporadas/{temporada}", h.driverSeason).Methods(http.MethodGet)

	h.router.NotFoundHandler = http.HandlerFunc(h.defaultHandler)
}

func (h *handler) defaultHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, messageResponse{Message: msgNotFound})
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

func (h *handler) placeWager(w http.ResponseWriter, r *http.Request) {
	var req betting.WagerRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: msgMalformedBody})
		return
	}

	settlement, err := h.wagers.Place(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.users.Invalidate(r.Context(), req.Username)

	wager := settlement.Wager
	newBalance := settlement.NewBalance.StringFixed(2)
	if wager.Won {
		writeJSON(w, http.StatusOK, wagerWonResponse{
			Message:     settlement.Message(),
			SaldoGanado: number(wager.Payout()),
			Cuota:       number(wager.Odds),
			NuevoSaldo:  newBalance,
		})
		return
	}
	writeJSON(w, http.StatusOK, wagerLostResponse{
		Message:      settlement.Message(),
		MontoPerdido: number(wager.Stake),
		Cuota:        number(wager.Odds),
		NuevoSaldo:   newBalance,
	})
}

func (h *handler) listWagers(w http.ResponseWriter, r *http.Request) {
	wagers, err := h.wagers.History(r.Context(), mux.Vars(r)["nombre_usuario"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wagers)
}
