package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/azulcreative/server/internal/domain"
	"github.com/azulcreative/server/internal/i18n"
	"github.com/azulcreative/server/internal/middleware"
)

const tokenTTL = 24 * time.Hour

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userProfileDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

type loginResponse struct {
	Token string         `json:"token"`
	User  userProfileDTO `json:"user"`
}

func profileDTO(u *domain.User) userProfileDTO {
	return userProfileDTO{
		ID:        u.ID,
		Username:  u.Username,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Register creates a pending account. An administrator must approve it
// before login succeeds.
func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 3 || len(req.Password) < 6 {
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         domain.UserRoleUser,
		Status:       domain.UserStatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.Users.Create(r.Context(), user); err != nil {
		a.domainError(w, r, err)
		return
	}

	a.Logger.Info().Str("username", user.Username).Msg("handler: user registered")
	a.json(w, http.StatusCreated, profileDTO(user))
}

// Login checks credentials and issues a bearer token.
func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request", i18n.KeyBadRequest)
		return
	}

	user, err := a.Users.GetByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		// Do not reveal whether the username exists.
		a.domainError(w, r, domain.ErrUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		a.domainError(w, r, domain.ErrUnauthorized)
		return
	}
	switch user.Status {
	case domain.UserStatusPending:
		a.domainError(w, r, domain.ErrUserPending)
		return
	case domain.UserStatusBlocked:
		a.domainError(w, r, domain.ErrUserBlocked)
		return
	}

	locale := middleware.LocaleFromContext(r.Context())
	token, err := middleware.SignToken(a.Config.JWTSecret, user, locale, tokenTTL)
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	a.json(w, http.StatusOK, loginResponse{Token: token, User: profileDTO(user)})
}

// Me returns the authenticated user's profile.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	user, err := a.Users.GetByID(r.Context(), a.currentUserID(r))
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, profileDTO(user))
}
