package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Tomas5220/f1-api/internal/service"
)

func (h *handler) listDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.drivers.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, drivers)
}

func (h *handler) getDriver(w http.ResponseWriter, r *http.Request) {
	driver, err := h.drivers.Get(r.Context(), mux.Vars(r)["id_piloto"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, driver)
}

func (h *handler) createDriver(w http.ResponseWriter, r *http.Request) {
	var req service.CreateDriverRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: msgMalformedBody})
		return
	}

	driver, err := h.drivers.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, driver)
}

func (h *handler) driverRaces(w http.ResponseWriter, r *http.Request) {
	races, err := h.drivers.Races(r.Context(), mux.Vars(r)["id_piloto"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, races)
}

func (h *handler) driverSeason(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	season, err := strconv.Atoi(vars["temporada"])
	if err != nil || season <= 0 {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: msgInvalidSeason})
		return
	}

	rows, err := h.drivers.SeasonResults(r.Context(), vars["id_piloto"], season)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *handler) deleteDriver(w http.ResponseWriter, r *http.Request) {
	if err := h.drivers.Delete(r.Context(), mux.Vars(r)["id_piloto"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgDriverDeleted})
}
