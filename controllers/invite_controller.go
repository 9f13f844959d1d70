package controllers

import (
	"net/http"

	"bumblechat_server/logger"
	"bumblechat_server/services"
	"bumblechat_server/socket"

	"github.com/gorilla/mux"
)

// InviteController handles shareable invite links.
type InviteController struct {
	InviteService *services.InviteService
	UserService   *services.UserService
	Hub           *socket.Hub
}

// NewInviteController initializes the invite controller.
func NewInviteController(inviteService *services.InviteService, userService *services.UserService, hub *socket.Hub) *InviteController {
	return &InviteController{InviteService: inviteService, UserService: userService, Hub: hub}
}

// HandleCreateInvite mints a 24h single-use token for the caller.
func (c *InviteController) HandleCreateInvite(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	creator, err := c.UserService.GetUser(r.Context(), identity.UID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	invite, err := c.InviteService.CreateInvite(r.Context(), creator)
	if err != nil {
		logger.Sugar.Errorf("❌ Failed to create invite for %s: %v", identity.UID, err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, invite)
}

// HandleGetInvite returns the token for the redemption page.
func (c *InviteController) HandleGetInvite(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerIdentity(w, r); !ok {
		return
	}

	inviteID := mux.Vars(r)["inviteId"]
	invite, err := c.InviteService.GetInvite(r.Context(), inviteID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, invite)
}

// HandleRedeemInvite connects the caller with the invite's creator.
func (c *InviteController) HandleRedeemInvite(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	redeemer, err := c.UserService.GetUser(r.Context(), identity.UID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	inviteID := mux.Vars(r)["inviteId"]
	invite, err := c.InviteService.RedeemInvite(r.Context(), inviteID, redeemer)
	if err != nil {
		logger.Sugar.Warnf("⚠️ Invite %s redemption by %s failed: %v", inviteID, identity.UID, err)
		respondServiceError(w, err)
		return
	}

	c.Hub.NotifyUser(invite.CreatedBy, "contactsChanged", invite)
	c.Hub.NotifyUser(redeemer.UID, "contactsChanged", invite)

	respondJSON(w, http.StatusOK, invite)
}
