package httpapi

import (
	"net/http"
	"time"

	"github.com/gowear/gowear/internal/common"
	"github.com/gowear/gowear/internal/logging"
	"github.com/gowear/gowear/internal/server/models"
	"github.com/gowear/gowear/internal/server/services"
	"github.com/gowear/gowear/internal/validate"
)

// Handlers holds the services behind the HTTP routes.
type Handlers struct {
	users    *services.UserService
	otps     *services.OTPService
	products *services.ProductService
	log      logging.Logger
}

func NewHandlers(users *services.UserService, otps *services.OTPService, products *services.ProductService, log logging.Logger) *Handlers {
	return &Handlers{users: users, otps: otps, products: products, log: log}
}

type registerRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirmPassword"`
	Role             string `json:"role"`
	TermsAndPolicies bool   `json:"termsAndPolicies"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Register(r.Context(), services.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            models.Role(req.Role),
		TermsAccepted:   req.TermsAndPolicies,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.log.Info(r.Context(), "user registered", "email", user.Email, "role", user.Role)
	writeJSON(w, http.StatusCreated, map[string]any{"user": user.Sanitize()})
}

type loginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	KeepMeLoggedIn bool   `json:"keepMeLoggedIn"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	profile, pair, err := h.users.Login(r.Context(), req.Email, req.Password, req.KeepMeLoggedIn)
	if err != nil {
		writeError(w, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, pair.RefreshTTL)
	writeJSON(w, http.StatusOK, map[string]any{"user": profile, "token": pair.AccessToken})
}

type googleAuthRequest struct {
	Code           string `json:"code"`
	RedirectURI    string `json:"redirectUri"`
	KeepMeLoggedIn bool   `json:"keepMeLoggedIn"`
}

func (h *Handlers) googleAuth(w http.ResponseWriter, r *http.Request) {
	action := services.GoogleAction(r.URL.Query().Get("action"))
	if action != services.GoogleSignUp && action != services.GoogleSignIn {
		writeError(w, common.NewValidationError(map[string]string{
			"action": "Action must be signUp or signIn",
		}))
		return
	}

	var req googleAuthRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	profile, pair, err := h.users.GoogleAuth(r.Context(), req.Code, req.RedirectURI, action, req.KeepMeLoggedIn)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if action == services.GoogleSignUp {
		status = http.StatusCreated
	}
	setRefreshCookie(w, pair.RefreshToken, pair.RefreshTTL)
	writeJSON(w, status, map[string]any{"user": profile, "token": pair.AccessToken})
}

func (h *Handlers) refreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(common.RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		writeError(w, common.ErrNoRefreshToken)
		return
	}

	access, err := h.users.Refresh(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": access})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"message": "logged out"})
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.GetProfile(r.Context(), userID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": profile})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handlers) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.ChangePassword(r.Context(), userID(r.Context()), req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "password updated"})
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

func (h *Handlers) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "password updated"})
}

type changeEmailRequest struct {
	Password string `json:"password"`
	NewEmail string `json:"newEmail"`
}

func (h *Handlers) changeEmail(w http.ResponseWriter, r *http.Request) {
	var req changeEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.ChangeEmail(r.Context(), userID(r.Context()), req.Password, req.NewEmail); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "email updated"})
}

type deleteAccountRequest struct {
	Confirmation string `json:"confirmation"`
}

func (h *Handlers) deleteAccount(w http.ResponseWriter, r *http.Request) {
	var req deleteAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if msg := validate.DeleteConfirmation(req.Confirmation); msg != "" {
		writeError(w, common.NewValidationError(map[string]string{"confirmation": msg}))
		return
	}

	if err := h.users.DeleteAccount(r.Context(), userID(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	clearRefreshCookie(w)
	h.log.Info(r.Context(), "account deleted", "user_id", userID(r.Context()))
	writeJSON(w, http.StatusOK, map[string]any{"message": "account deleted"})
}

// setRefreshCookie installs the HTTP-only refresh cookie. The token is
// never exposed to scripts; only the access token travels in JSON.
func setRefreshCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.RefreshTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.RefreshTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
