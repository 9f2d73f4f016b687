package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/azulcreative/server/internal/domain"
	"github.com/azulcreative/server/internal/i18n"
)

// AdminListUsers returns every account.
func (a *App) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.Users.List(r.Context())
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	dtos := make([]userProfileDTO, len(users))
	for i := range users {
		dtos[i] = profileDTO(&users[i])
	}
	a.json(w, http.StatusOK, dtos)
}

type adminCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// AdminCreateUser provisions an account directly in the active state,
// skipping the pending-approval flow of public registration.
func (a *App) AdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var body adminCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}
	body.Username = strings.TrimSpace(body.Username)
	if len(body.Username) < 3 || len(body.Password) < 6 {
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}
	role := domain.UserRole(body.Role)
	if role == "" {
		role = domain.UserRoleUser
	}
	if role != domain.UserRoleUser && role != domain.UserRoleAdmin {
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     body.Username,
		PasswordHash: string(hash),
		Role:         role,
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.Users.Create(r.Context(), user); err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, profileDTO(user))
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// AdminUpdateStatus approves or blocks an account.
func (a *App) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}
	status := domain.UserStatus(body.Status)
	switch status {
	case domain.UserStatusActive, domain.UserStatusPending, domain.UserStatusBlocked:
	default:
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}
	if err := a.Users.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status); err != nil {
		a.domainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type roleUpdateRequest struct {
	Role string `json:"role"`
}

// AdminUpdateRole promotes or demotes an account.
func (a *App) AdminUpdateRole(w http.ResponseWriter, r *http.Request) {
	var body roleUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}
	role := domain.UserRole(body.Role)
	if role != domain.UserRoleUser && role != domain.UserRoleAdmin {
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}
	if err := a.Users.UpdateRole(r.Context(), chi.URLParam(r, "id"), role); err != nil {
		a.domainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminDeleteUser removes an account and its creatives.
func (a *App) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := a.Users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
