package main

import (
	"context"
	"net/http"

	"bumblechat_server/config"
	"bumblechat_server/logger"
	"bumblechat_server/middleware"
	"bumblechat_server/routes"
	"bumblechat_server/services"
	"bumblechat_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	ctx := context.Background()

	// Load configuration (config.yaml plus BUMBLECHAT_* / PORT env overrides)
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger.InitLogger(cfg.Server.Mode)
	defer logger.Log.Sync()

	// Initialize DynamoDB client and service
	logger.Sugar.Info("🔌 Initializing DynamoDB client...")
	dynamoClient, err := services.InitializeDynamoDBClient(ctx, cfg.AWS.Region)
	if err != nil {
		logger.Sugar.Fatalf("❌ Failed to initialize DynamoDB client: %v", err)
	}
	dynamoService := &services.DynamoService{Client: dynamoClient}
	logger.Sugar.Info("✅ DynamoDB client initialized")

	// Initialize Firebase Auth for token verification
	authClient, err := middleware.NewFirebaseAuthClient(ctx, cfg.Firebase.CredentialsFile)
	if err != nil {
		logger.Sugar.Fatalf("❌ Failed to initialize Firebase Auth: %v", err)
	}
	authMiddleware := &middleware.AuthMiddleware{Client: authClient}

	// Initialize S3 presigning for profile photos
	s3Service, err := services.NewS3Service(ctx, cfg.AWS.Region, cfg.AWS.S3Bucket)
	if err != nil {
		logger.Sugar.Fatalf("❌ Failed to initialize S3 service: %v", err)
	}

	// Initialize Services
	userService := &services.UserService{Dynamo: dynamoService}
	notificationService := &services.NotificationService{Dynamo: dynamoService}
	contactService := &services.ContactService{
		Dynamo:        dynamoService,
		Users:         userService,
		Notifications: notificationService,
	}
	chatService := &services.ChatService{Dynamo: dynamoService}
	inviteService := &services.InviteService{
		Dynamo:        dynamoService,
		Contacts:      contactService,
		Notifications: notificationService,
	}

	// Initialize the socket hub for realtime pushes
	hub := socket.NewHub()
	go func() {
		if err := hub.Server.Serve(); err != nil {
			logger.Sugar.Errorf("❌ Socket server error: %v", err)
		}
	}()
	defer hub.Server.Close()

	// Initialize the router
	r := mux.NewRouter()
	r.Handle("/socket.io/", hub.Server)

	// Register routes
	routes.RegisterRoutes(r)
	routes.RegisterUserRoutes(r, userService, authMiddleware)
	routes.RegisterContactRoutes(r, contactService, userService, hub, authMiddleware)
	routes.RegisterChatRoutes(r, chatService, hub, authMiddleware)
	routes.RegisterInviteRoutes(r, inviteService, userService, hub, authMiddleware)
	routes.RegisterNotificationRoutes(r, notificationService, authMiddleware)
	routes.RegisterMediaRoutes(r, s3Service, authMiddleware)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	logger.Sugar.Infof("🚀 Starting server on port %s...", cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, corsHandler); err != nil {
		logger.Sugar.Fatalf("❌ Server stopped: %v", err)
	}
}
