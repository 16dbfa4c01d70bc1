package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/permitdesk/permitdesk/pkg/models"
	"github.com/permitdesk/permitdesk/pkg/repository"
)

type UsersHandler struct {
	userRepo repository.UserRepo
}

func NewUsersHandler(ur repository.UserRepo) *UsersHandler {
	return &UsersHandler{userRepo: ur}
}

func (h *UsersHandler) PendingUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.ListPendingUsers(r.Context())
	if err != nil {
		writeError(w, "failed to list pending users", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	writeJSON(w, users, http.StatusOK)
}

type approveUserRequest struct {
	Role string `json:"role,omitempty"`
}

// ApproveUser activates a pending account, optionally assigning a role.
func (h *UsersHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req approveUserRequest
	if r.Body != nil {
		// body is optional; a decode failure on an empty body is fine
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Role != "" && req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		writeError(w, "invalid role", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	user, err := h.userRepo.GetByID(ctx, id)
	if err != nil {
		writeError(w, "failed to load user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		writeError(w, "user not found", http.StatusNotFound)
		return
	}

	user.Approved = true
	if req.Role != "" {
		user.Role = req.Role
	}
	if err := h.userRepo.UpdateUser(ctx, user); err != nil {
		writeError(w, "failed to approve user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, user, http.StatusOK)
}
