package routes

import (
	"bumblechat_server/controllers"
	"bumblechat_server/middleware"
	"bumblechat_server/services"

	"github.com/gorilla/mux"
)

// RegisterMediaRoutes sets up routes for presigned photo URLs under /api/media
func RegisterMediaRoutes(r *mux.Router, s3Service *services.S3Service, auth *middleware.AuthMiddleware) {
	// Initialize the controller with the S3Service
	controller := controllers.NewMediaController(s3Service)

	// Create a subrouter for /api/media
	mediaRouter := r.PathPrefix("/api/media").Subrouter()
	mediaRouter.Use(auth.Handler)

	// Define routes and their corresponding handlers
	mediaRouter.HandleFunc("/upload-url", controller.HandleGetUploadURL).Methods("POST")
	mediaRouter.HandleFunc("/read-url", controller.HandleGetReadURL).Methods("GET")
}
