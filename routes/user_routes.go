package routes

import (
	"bumblechat_server/controllers"
	"bumblechat_server/middleware"
	"bumblechat_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserRoutes sets up routes for profile operations under /api/users
func RegisterUserRoutes(r *mux.Router, userService *services.UserService, auth *middleware.AuthMiddleware) {
	// Initialize the controller with the UserService
	controller := controllers.NewUserController(userService)

	// Create a subrouter for /api/users
	userRouter := r.PathPrefix("/api/users").Subrouter()
	userRouter.Use(auth.Handler)

	// Define routes and their corresponding handlers
	userRouter.HandleFunc("/sync", controller.HandleSyncUser).Methods("POST")
	userRouter.HandleFunc("/me", controller.HandleGetMe).Methods("GET")
	userRouter.HandleFunc("/me", controller.HandleUpdateMe).Methods("PUT")
	userRouter.HandleFunc("/me/username", controller.HandleSetUsername).Methods("POST")
	userRouter.HandleFunc("/lookup", controller.HandleLookup).Methods("GET")
	userRouter.HandleFunc("", controller.HandleListUsers).Methods("GET")
}
