package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Tomas5220/f1-api/internal/service"
)

func (h *handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: msgMalformedBody})
		return
	}

	if _, err := h.users.Create(r.Context(), &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: msgUserCreated})
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), mux.Vars(r)["nombre_usuario"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handler) updateBalance(w http.ResponseWriter, r *http.Request) {
	var req balanceRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: msgMalformedBody})
		return
	}

	balance, err := h.users.TopUp(r.Context(), req.Username, req.Amount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Message: msgBalanceUpdated, Balance: number(balance)})
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), mux.Vars(r)["nombre_usuario"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgUserDeleted})
}
