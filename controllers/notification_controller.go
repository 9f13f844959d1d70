package controllers

import (
	"net/http"

	"bumblechat_server/services"

	"github.com/gorilla/mux"
)

// NotificationController lists and marks in-app notifications.
type NotificationController struct {
	NotificationService *services.NotificationService
}

// NewNotificationController initializes the notification controller.
func NewNotificationController(service *services.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: service}
}

// HandleListNotifications returns the caller's notifications, newest first.
func (c *NotificationController) HandleListNotifications(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	notifications, err := c.NotificationService.List(r.Context(), identity.UID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

// HandleMarkRead flips the read flag on one of the caller's notifications.
func (c *NotificationController) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	notificationID := mux.Vars(r)["notificationId"]
	if err := c.NotificationService.MarkRead(r.Context(), identity.UID, notificationID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
