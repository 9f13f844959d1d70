package controllers

import (
	"net/http"

	"bumblechat_server/logger"
	"bumblechat_server/models"
	"bumblechat_server/services"
	"bumblechat_server/socket"

	"github.com/gorilla/mux"
)

// ContactController handles the contact-request lifecycle and the contact list.
type ContactController struct {
	ContactService *services.ContactService
	UserService    *services.UserService
	Hub            *socket.Hub
}

// NewContactController initializes the contact controller.
func NewContactController(contactService *services.ContactService, userService *services.UserService, hub *socket.Hub) *ContactController {
	return &ContactController{ContactService: contactService, UserService: userService, Hub: hub}
}

// HandleSendRequest creates a pending contact request to a target resolved by
// email or username.
func (c *ContactController) HandleSendRequest(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var request struct {
		Email    string `json:"email"`
		Username string `json:"username"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	target := request.Email
	if target == "" {
		target = request.Username
	}
	if target == "" {
		respondError(w, http.StatusBadRequest, "email or username is required")
		return
	}

	from, err := c.UserService.GetUser(r.Context(), identity.UID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	contactRequest, err := c.ContactService.SendRequest(r.Context(), from, target)
	if err != nil {
		logger.Sugar.Warnf("⚠️ Contact request from %s failed: %v", identity.UID, err)
		respondServiceError(w, err)
		return
	}

	c.Hub.NotifyUser(contactRequest.ToUID, "contactRequest", contactRequest)

	respondJSON(w, http.StatusCreated, contactRequest)
}

// HandleListIncoming returns the caller's pending incoming requests.
func (c *ContactController) HandleListIncoming(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	requests, err := c.ContactService.ListIncoming(r.Context(), identity.UID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, requests)
}

// HandleListSent returns the caller's sent requests with their statuses.
func (c *ContactController) HandleListSent(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	requests, err := c.ContactService.ListSent(r.Context(), identity.UID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, requests)
}

// HandleRespond accepts or rejects a pending request addressed to the caller.
func (c *ContactController) HandleRespond(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	requestID := mux.Vars(r)["requestId"]

	var request struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	contactRequest, err := c.ContactService.Respond(r.Context(), requestID, identity.UID, request.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if contactRequest.Status == models.StatusAccepted {
		// both sides get a contact-list refresh push
		c.Hub.NotifyUser(contactRequest.FromUID, "contactsChanged", contactRequest)
		c.Hub.NotifyUser(contactRequest.ToUID, "contactsChanged", contactRequest)
	}

	respondJSON(w, http.StatusOK, contactRequest)
}

// HandleListContacts returns the caller's contact list joined with user info.
func (c *ContactController) HandleListContacts(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	contacts, err := c.ContactService.ListContacts(r.Context(), identity.UID)
	if err != nil {
		logger.Sugar.Errorf("❌ Failed to list contacts for %s: %v", identity.UID, err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, contacts)
}

// HandleRemoveContact unfriends: both edge directions go in one transaction.
func (c *ContactController) HandleRemoveContact(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	contactID := mux.Vars(r)["contactId"]
	if contactID == "" {
		respondError(w, http.StatusBadRequest, "contactId is required")
		return
	}

	if err := c.ContactService.RemoveContact(r.Context(), identity.UID, contactID); err != nil {
		respondServiceError(w, err)
		return
	}

	c.Hub.NotifyUser(contactID, "contactsChanged", map[string]string{"removed": identity.UID})

	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
