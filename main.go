package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"thingsmatch_server/config"
	"thingsmatch_server/middleware"
	"thingsmatch_server/routes"
	"thingsmatch_server/services"
	"thingsmatch_server/socket"
	"thingsmatch_server/utils"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	// DynamoDB client and the stores built on it
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWSRegion)
	dynamoService := &services.DynamoService{Client: dynamoClient}
	matchStore := &services.DynamoMatchStore{Dynamo: dynamoService}
	messageStore := &services.DynamoMessageStore{Dynamo: dynamoService}

	// Domain services
	participantService := &services.ParticipantService{Dynamo: dynamoService, Log: logger}
	notificationService := &services.NotificationService{
		Participants: participantService,
		GatewayURL:   cfg.PushGatewayURL,
		Client:       &http.Client{Timeout: 10 * time.Second},
		Log:          logger,
	}
	itemService := &services.ItemService{Dynamo: dynamoService, Log: logger}
	matchService := &services.MatchService{
		Store:    matchStore,
		Items:    itemService,
		Messages: messageStore,
		Notify:   notificationService,
		Log:      logger,
	}
	itemService.Matches = matchService
	messageService := &services.MessageService{
		Store:   messageStore,
		Matches: matchService,
		Notify:  notificationService,
		Log:     logger,
	}
	mediaService := services.NewMediaService(cfg.AWSRegion, cfg.S3Bucket)

	// Rate limiters for the swipe and send endpoints
	swipeLimiter := middleware.NewLimiterStore(cfg.SwipeLimitPerMinute, cfg.SwipeLimitPerMinute, 5*time.Minute)
	sendLimiter := middleware.NewLimiterStore(cfg.SendLimitPerMinute, cfg.SendLimitPerMinute, 5*time.Minute)

	// Real-time delivery channel
	hub := &socket.Hub{
		Matches:  matchService,
		Messages: messageService,
		Log:      logger,
	}
	socketServer := socket.NewSocketServer(hub, cfg.JWTSecret, logger)
	go func() {
		if err := socketServer.Serve(); err != nil {
			logger.Error("socket server stopped", zap.Error(err))
		}
	}()
	defer socketServer.Close()

	r := mux.NewRouter()

	// Health check is public; load balancers ping it.
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	// Socket endpoint authenticates per connection, not per request.
	r.Handle("/socket.io/", socketServer)

	// Every /api/tm route requires a verified credential.
	api := r.PathPrefix("/api/tm").Subrouter()
	api.Use(middleware.Authorize(cfg.JWTSecret))

	routes.RegisterParticipantRoutes(api, participantService)
	routes.RegisterItemRoutes(api, itemService, matchService, swipeLimiter)
	routes.RegisterMatchRoutes(api, matchService, messageService, sendLimiter)
	routes.RegisterMediaRoutes(api, mediaService)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	logger.Info("starting ThingsMatch server",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env))
	return http.ListenAndServe(":"+cfg.Port, corsHandler)
}
