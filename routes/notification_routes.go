package routes

import (
	"bumblechat_server/controllers"
	"bumblechat_server/middleware"
	"bumblechat_server/services"

	"github.com/gorilla/mux"
)

// RegisterNotificationRoutes sets up routes for in-app notifications under
// /api/notifications
func RegisterNotificationRoutes(r *mux.Router, notificationService *services.NotificationService, auth *middleware.AuthMiddleware) {
	// Initialize the controller with the NotificationService
	controller := controllers.NewNotificationController(notificationService)

	// Create a subrouter for /api/notifications
	notificationRouter := r.PathPrefix("/api/notifications").Subrouter()
	notificationRouter.Use(auth.Handler)

	// Define routes and their corresponding handlers
	notificationRouter.HandleFunc("", controller.HandleListNotifications).Methods("GET")
	notificationRouter.HandleFunc("/{notificationId}/read", controller.HandleMarkRead).Methods("POST")
}
