package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/social-feed-be/internal/api"
	"github.com/isdelr/social-feed-be/internal/api/handlers"
	"github.com/isdelr/social-feed-be/internal/auth"
	"github.com/isdelr/social-feed-be/internal/config"
	"github.com/isdelr/social-feed-be/internal/database"
	gql "github.com/isdelr/social-feed-be/internal/graphql"
	"github.com/isdelr/social-feed-be/internal/images"
	"github.com/isdelr/social-feed-be/internal/logger"
	"github.com/isdelr/social-feed-be/internal/services"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the image store
	imageStore, err := images.NewStore(cfg.ImagesDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize image store")
	}

	// Set up services
	tokens := auth.NewManager(cfg.JWTSecret)
	userService := services.NewUserService(db, tokens)
	postService := services.NewPostService(db, imageStore)

	// Set up and run the background image sweeper
	sweeper, err := images.NewSweeper(imageStore, postService, cfg.SweepSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid image sweep schedule")
	}
	go sweeper.Run()

	// Build the GraphQL schema
	schema, err := gql.NewResolver(userService, postService).Schema()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build GraphQL schema")
	}

	// Set up router
	router := api.NewRouter(
		tokens,
		handlers.NewGraphQLHandler(schema),
		handlers.NewUploadHandler(imageStore),
		cfg.ImagesDir,
	)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
