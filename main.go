package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"shelterlink_server/config"
	"shelterlink_server/routes"
	"shelterlink_server/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// .env is optional; deployments usually set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize DynamoDB client and storage
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWS.Region)
	dynamoService := &services.DynamoService{Client: dynamoClient}
	store := services.NewDynamoStore(dynamoService)
	log.Println("DynamoDB client initialized.")

	embedder, err := services.NewOpenAIEmbedder(cfg.Embedder)
	if err != nil {
		log.Fatalf("Failed to initialize embedder: %v", err)
	}

	// Initialize Services
	emailService := &services.EmailService{Sender: services.NewSMTPSender(cfg.SMTP)}
	matchService := &services.MatchService{Store: store, Notifier: emailService}
	vectorService := &services.VectorMatchService{Store: store}
	formsService := &services.FormsService{Store: store, Embedder: embedder, Matches: matchService, Vector: vectorService}
	userService := &services.UserService{Store: store, Forms: formsService}

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to ShelterLink")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterSignupRoutes(r, userService)
	routes.RegisterUserRoutes(r, userService)
	routes.RegisterShelterRoutes(r, userService)
	routes.RegisterFormsRoutes(r, formsService)
	routes.RegisterVectorMatchRoutes(r, vectorService, matchService)
	routes.RegisterMatchRoutes(r, matchService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.Server.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Server.Port, corsHandler))
}
