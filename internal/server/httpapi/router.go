package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gowear/gowear/internal/logging"
	"github.com/gowear/gowear/internal/server/auth"
	"github.com/gowear/gowear/internal/server/models"
)

// NewRouter wires all routes. Auth-gated routes nest under subrouters so
// the bearer-token middleware runs exactly where it is needed.
func NewRouter(h *Handlers, issuer *auth.Issuer, log logging.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests(log))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	}).Methods(http.MethodGet)

	// Public identity routes.
	r.HandleFunc("/users/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/users/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/users/refresh_token", h.refreshToken).Methods(http.MethodPost)
	r.HandleFunc("/users/log_out", h.logout).Methods(http.MethodPost)
	r.HandleFunc("/users/auth/google", h.googleAuth).Methods(http.MethodPost)
	r.HandleFunc("/users/reset_password", h.resetPassword).Methods(http.MethodPost)

	r.HandleFunc("/otp_verify/request", h.otpRequest).Methods(http.MethodPost)
	r.HandleFunc("/otp_verify/verify", h.otpVerify).Methods(http.MethodPost)

	// Routes for any authenticated user.
	authed := r.NewRoute().Subrouter()
	authed.Use(authenticate(issuer))
	authed.HandleFunc("/users/me", h.me).Methods(http.MethodGet)
	authed.HandleFunc("/users/password", h.changePassword).Methods(http.MethodPatch)
	authed.HandleFunc("/users/email", h.changeEmail).Methods(http.MethodPatch)
	authed.HandleFunc("/users/me", h.deleteAccount).Methods(http.MethodDelete)

	// Product management requires an elevated role; listing is public.
	managers := r.NewRoute().Subrouter()
	managers.Use(authenticate(issuer), requireRole(models.RoleProductManager, models.RoleAdmin))
	managers.HandleFunc("/products/add_product", h.addProduct).Methods(http.MethodPost)

	r.HandleFunc("/products/show_products", h.showProducts).Methods(http.MethodGet)

	// Admin-only account management.
	admin := r.NewRoute().Subrouter()
	admin.Use(authenticate(issuer), requireRole(models.RoleAdmin))
	admin.HandleFunc("/users", h.listUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}/approval", h.setApproval).Methods(http.MethodPatch)

	return r
}
