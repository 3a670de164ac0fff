package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gowear/gowear/internal/server/models"
)

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

type approvalRequest struct {
	Status string `json:"status"`
}

func (h *Handlers) setApproval(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req approvalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.SetApproval(r.Context(), id, models.ApprovalStatus(req.Status)); err != nil {
		writeError(w, err)
		return
	}

	h.log.Info(r.Context(), "approval updated", "user_id", id, "status", req.Status)
	writeJSON(w, http.StatusOK, map[string]any{"message": "approval updated"})
}
