package controllers

import (
	"net/http"

	"bumblechat_server/logger"
	"bumblechat_server/services"
)

// UserController handles profile sync, edits, username setup, and lookups.
type UserController struct {
	UserService *services.UserService
}

// NewUserController initializes the user controller.
func NewUserController(service *services.UserService) *UserController {
	return &UserController{UserService: service}
}

// HandleSyncUser upserts the caller's user document from the verified token
// claims; called by the client right after sign-in.
func (c *UserController) HandleSyncUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	user, err := c.UserService.SyncUser(r.Context(), identity.UID, identity.Email, identity.Name, identity.Picture)
	if err != nil {
		logger.Sugar.Errorf("❌ Failed to sync user %s: %v", identity.UID, err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// HandleGetMe returns the caller's profile.
func (c *UserController) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	user, err := c.UserService.GetUser(r.Context(), identity.UID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// HandleUpdateMe edits the caller's display fields.
func (c *UserController) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var request struct {
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"photoURL"`
	}
	if !decodeBody(w, r, &request) {
		return
	}
	if request.DisplayName == "" {
		respondError(w, http.StatusBadRequest, "displayName is required")
		return
	}

	user, err := c.UserService.UpdateProfile(r.Context(), identity.UID, request.DisplayName, request.PhotoURL)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// HandleSetUsername assigns the caller's unique handle.
func (c *UserController) HandleSetUsername(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var request struct {
		Username string `json:"username"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	user, err := c.UserService.SetUsername(r.Context(), identity.UID, request.Username)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// HandleLookup resolves a user by ?email= or ?username=.
func (c *UserController) HandleLookup(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerIdentity(w, r); !ok {
		return
	}

	email := r.URL.Query().Get("email")
	username := r.URL.Query().Get("username")

	switch {
	case email != "":
		user, err := c.UserService.LookupByEmail(r.Context(), email)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, user)
	case username != "":
		user, err := c.UserService.LookupByUsername(r.Context(), username)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, user)
	default:
		respondError(w, http.StatusBadRequest, "email or username query parameter is required")
	}
}

// HandleListUsers returns the user directory, excluding the caller.
func (c *UserController) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	users, err := c.UserService.ListUsers(r.Context(), identity.UID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, users)
}
