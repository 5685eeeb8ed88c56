package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// AuthHandler serves signup and login.
type AuthHandler struct {
	users service.UserService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// decodeCredentials reads and validates a CredentialsRequest. Any missing
// field is reported with the same message.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (domain.Credentials, bool) {
	var req CredentialsRequest
	if !decodeBody(w, r, &req) {
		return domain.Credentials{}, false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			domain.ErrMissingCredential.Message, err)
		return domain.Credentials{}, false
	}
	return req.credentials(), true
}

// Signup handles POST /signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	if _, err := h.users.Signup(r.Context(), creds); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusCreated, "User created")
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	result, err := h.users.Login(r.Context(), creds)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, msgInvalidCreds, err,
				shared.WithElevatedLogLevel())
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Message: "Login successful",
		UserID:  result.UserID,
		Token:   result.Token,
	})
}
