package handlers

import (
	"net/http"

	"keenpages/internal/apperr"
	"keenpages/internal/service"
)

// AuthHandler serves registration, login and password recovery
type AuthHandler struct {
	authService          *service.AuthService
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
	appBaseURL           string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL, appBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
		appBaseURL:           appBaseURL,
	}
}

// Register creates a new account and returns the user with a login
// token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, token, err := h.authService.Register(req.Email, req.Password, req.Username, req.FirstName, req.LastName)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "Your account has been created.", authResponse{User: user, Token: token})
}

// Login authenticates by email or username and returns the user with a
// login token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Login == "" || req.Password == "" {
		respondError(w, apperr.New(apperr.Validation, "Please provide your email and password."))
		return
	}

	user, token, err := h.authService.Authenticate(req.Login, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "You are signed in.", authResponse{User: user, Token: token})
}

// ForgotPass requests a password reset email. The response is the same
// whether or not the address is registered.
func (h *AuthHandler) ForgotPass(w http.ResponseWriter, r *http.Request) {
	var req forgotPassRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "If that email is registered, a reset link is on its way.", nil)
}

// ResetPass sets a new password using an emailed reset token.
func (h *AuthHandler) ResetPass(w http.ResponseWriter, r *http.Request) {
	var req resetPassRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Token == "" {
		respondError(w, apperr.New(apperr.Validation, "This reset link is invalid or has expired."))
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Your password has been reset. Please sign in.", nil)
}

// ChangePass updates the password of the signed-in user.
func (h *AuthHandler) ChangePass(w http.ResponseWriter, r *http.Request) {
	var req changePassRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user := GetUserFromContext(r.Context())
	if err := h.authService.ChangePassword(user, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "Your password has been changed.", nil)
}
