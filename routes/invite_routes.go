package routes

import (
	"bumblechat_server/controllers"
	"bumblechat_server/middleware"
	"bumblechat_server/services"
	"bumblechat_server/socket"

	"github.com/gorilla/mux"
)

// RegisterInviteRoutes sets up routes for invite links under /api/invites
func RegisterInviteRoutes(r *mux.Router, inviteService *services.InviteService, userService *services.UserService, hub *socket.Hub, auth *middleware.AuthMiddleware) {
	// Initialize the controller with the InviteService
	controller := controllers.NewInviteController(inviteService, userService, hub)

	// Create a subrouter for /api/invites
	inviteRouter := r.PathPrefix("/api/invites").Subrouter()
	inviteRouter.Use(auth.Handler)

	// Define routes and their corresponding handlers
	inviteRouter.HandleFunc("", controller.HandleCreateInvite).Methods("POST")
	inviteRouter.HandleFunc("/{inviteId}", controller.HandleGetInvite).Methods("GET")
	inviteRouter.HandleFunc("/{inviteId}/accept", controller.HandleRedeemInvite).Methods("POST")
}
