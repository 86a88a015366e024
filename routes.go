package main

import (
	"github.com/gorilla/mux"
)

// setupRoutes configures all HTTP routes for the API
func setupRoutes(router *mux.Router) {
	// Resolution endpoints
	router.HandleFunc("/getLyrics", getLyrics)
	router.HandleFunc("/prefetch", prefetchLyrics)
	router.HandleFunc("/cached", getCachedLyrics)

	// Cache management
	router.HandleFunc("/cache", getCacheDump)

	// Health endpoint
	router.HandleFunc("/health", getHealthStatus)

	// Help endpoint
	router.HandleFunc("/", helpHandler)
}
