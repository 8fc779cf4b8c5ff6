// Package main initializes and starts the cardfolio record-store server,
// setting up configuration, logging, database connections, repositories,
// services, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/cardfolio/cardfolio/internal/config"
	"github.com/cardfolio/cardfolio/internal/db"
	"github.com/cardfolio/cardfolio/internal/logger"
	"github.com/cardfolio/cardfolio/internal/repository"
	"github.com/cardfolio/cardfolio/internal/server/handler/http"
	"github.com/cardfolio/cardfolio/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Purge expired support tickets in the background.
	db.StartTicketCleaner(context.Background(), postgresDB,
		time.Hour,    // interval
		24*time.Hour, // grace after expiry
		zapLogger,
	)

	// Initialize per-table repositories.
	profileRepo := repository.NewPostgresProfileRepository(postgresDB)
	cardRepo := repository.NewPostgresCardRepository(postgresDB)
	referralRepo := repository.NewPostgresReferralRepository(postgresDB)
	dashboardRepo := repository.NewPostgresDashboardRepository(postgresDB)
	fileRepo, err := repository.NewPostgresAttachmentRepository(postgresDB, repository.TableFiles)
	if err != nil {
		zapLogger.Fatal("cannot init file repository", zap.Error(err))
	}
	voiceRepo, err := repository.NewPostgresAttachmentRepository(postgresDB, repository.TableVoiceNotes)
	if err != nil {
		zapLogger.Fatal("cannot init voice note repository", zap.Error(err))
	}

	// Initialize business-logic services.
	profileService := service.NewProfileService(profileRepo)
	cardService := service.NewCardService(cardRepo)
	referralService := service.NewReferralService(referralRepo)
	dashboardService := service.NewDashboardService(dashboardRepo)
	fileService := service.NewAttachmentService(fileRepo)
	voiceService := service.NewAttachmentService(voiceRepo)

	// Build the router with middleware and routes.
	router := http.NewRouter(http.Handlers{
		Profile:    &http.ProfileHandler{ProfileService: profileService},
		Cards:      &http.CardHandler{CardService: cardService},
		Referrals:  &http.ReferralHandler{ReferralService: referralService},
		Files:      &http.AttachmentHandler{AttachmentService: fileService},
		VoiceNotes: &http.AttachmentHandler{AttachmentService: voiceService},
		Dashboard:  &http.DashboardHandler{DashboardService: dashboardService},
	}, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Address,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
