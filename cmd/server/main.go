package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reelify.io/movie-advisor/internal/api"
	"reelify.io/movie-advisor/internal/catalog"
	"reelify.io/movie-advisor/internal/config"
	"reelify.io/movie-advisor/internal/core"
	"reelify.io/movie-advisor/internal/embed"
	"reelify.io/movie-advisor/internal/vectorstore"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Command line flag for catalog ingestion
	ingestFlag := flag.Bool("ingest", false, "Re-ingest the movie catalog into the vector store and exit")
	flag.Parse()

	// Initialize embedder and vector store. The store seeds itself from the
	// catalog on first use if it is empty.
	embedder := embed.NewGeminiEmbedder()
	defer embedder.Close()

	seed := func() []catalog.Document {
		return catalog.RenderDocuments(catalog.LoadMovies(config.AppConfig.CatalogPath))
	}

	store, err := vectorstore.NewStore(config.AppConfig.DatabaseURL, embedder, seed)
	if err != nil {
		log.Fatalf("Failed to initialize vector store: %v", err)
	}
	defer store.Close()

	// Handle catalog ingestion if flag is set
	if *ingestFlag {
		log.Println("Starting catalog ingestion...")
		numIngested, err := store.Ingest(context.Background(), seed())
		if err != nil {
			log.Fatalf("Catalog ingestion failed: %v", err)
		}
		log.Printf("Catalog ingestion complete. Ingested %d documents. Exiting.", numIngested)
		os.Exit(0)
	}

	// Initialize sessions and the recommender
	sessions := core.NewSessionManager(config.AppConfig.SessionTTL)
	recommender := core.NewRecommender(store, sessions, config.AppConfig.TopKResults, config.AppConfig.SearchTimeout)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(recommender, sessions)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // First request may lazily seed the index
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
