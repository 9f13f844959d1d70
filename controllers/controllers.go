package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bumblechat_server/middleware"
	"bumblechat_server/services"
)

// HealthCheckHandler reports service liveness.
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// WelcomeHandler greets unauthenticated visitors.
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Welcome to BumbleChat"})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrItemNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrSelfRequest),
		errors.Is(err, services.ErrSelfChat),
		errors.Is(err, services.ErrSelfInvite),
		errors.Is(err, services.ErrInvalidUsername),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrEmptyMessage):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrUsernameSet),
		errors.Is(err, services.ErrRequestExists),
		errors.Is(err, services.ErrAlreadyContacts),
		errors.Is(err, services.ErrRequestNotPending),
		errors.Is(err, services.ErrInviteRedeemed),
		errors.Is(err, services.ErrConditionFailed):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotRecipient):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInviteExpired):
		respondError(w, http.StatusGone, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody reads a JSON request body, answering 400 on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// callerIdentity pulls the verified identity injected by the auth middleware.
func callerIdentity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
	}
	return identity, ok
}
