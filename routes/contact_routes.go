package routes

import (
	"bumblechat_server/controllers"
	"bumblechat_server/middleware"
	"bumblechat_server/services"
	"bumblechat_server/socket"

	"github.com/gorilla/mux"
)

// RegisterContactRoutes sets up routes for contact and request operations
// under /api/contacts
func RegisterContactRoutes(r *mux.Router, contactService *services.ContactService, userService *services.UserService, hub *socket.Hub, auth *middleware.AuthMiddleware) {
	// Initialize the controller with the ContactService
	controller := controllers.NewContactController(contactService, userService, hub)

	// Create a subrouter for /api/contacts
	contactRouter := r.PathPrefix("/api/contacts").Subrouter()
	contactRouter.Use(auth.Handler)

	// Define routes and their corresponding handlers
	contactRouter.HandleFunc("/requests", controller.HandleSendRequest).Methods("POST")
	contactRouter.HandleFunc("/requests/incoming", controller.HandleListIncoming).Methods("GET")
	contactRouter.HandleFunc("/requests/sent", controller.HandleListSent).Methods("GET")
	contactRouter.HandleFunc("/requests/{requestId}/respond", controller.HandleRespond).Methods("POST")
	contactRouter.HandleFunc("", controller.HandleListContacts).Methods("GET")
	contactRouter.HandleFunc("/{contactId}", controller.HandleRemoveContact).Methods("DELETE")
}
