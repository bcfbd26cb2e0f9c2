package main

import (
	"log"
	"net/http"

	"fleet_manager/internal/config"
	"fleet_manager/internal/logger"
	"fleet_manager/internal/middleware"
	"fleet_manager/internal/routes"
)

func main() {
	// Structured logging to a rotating file
	logger.Setup()

	// Connect to the database and migrate the schema
	config.InitDB()

	// Router with recovery and request logging
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := "0.0.0.0:" + config.GetEnv("PORT", "8080")
	log.Printf("server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
