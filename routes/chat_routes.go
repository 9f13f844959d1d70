package routes

import (
	"bumblechat_server/controllers"
	"bumblechat_server/middleware"
	"bumblechat_server/services"
	"bumblechat_server/socket"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for chat-related operations under /api/chat
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService, hub *socket.Hub, auth *middleware.AuthMiddleware) {
	// Initialize the controller with the ChatService
	controller := controllers.NewChatController(chatService, hub)

	// Create a subrouter for /api/chat
	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.Use(auth.Handler)

	// Define routes and their corresponding handlers
	chatRouter.HandleFunc("/message", controller.HandleSendMessage).Methods("POST")
	chatRouter.HandleFunc("/messages/{peerId}", controller.HandleGetMessages).Methods("GET")
	chatRouter.HandleFunc("/messages/{peerId}/mark-as-read", controller.HandleMarkMessagesAsRead).Methods("POST")
}
