package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"groupgetaway/config"
	"groupgetaway/internal/adapters/auth"
	"groupgetaway/internal/adapters/email"
	deliveryhttp "groupgetaway/internal/delivery/http"
	"groupgetaway/internal/delivery/http/controllers"
	"groupgetaway/internal/delivery/http/middleware"
	"groupgetaway/internal/repository/postgres"
	"groupgetaway/internal/services"
)

// @title Group Getaway API
// @version 1.0
// @description Interest-to-group matching and confirmation engine for group travel.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	// Repositories
	destinationRepo := postgres.NewDestinationRepository(db)
	interestRepo := postgres.NewInterestRepository(db)
	groupRepo := postgres.NewGroupRepository(db)
	confirmationRepo := postgres.NewConfirmationRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Adapters
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	hasher := auth.NewBcryptHasher(12)
	issuer, verifier := auth.NewJWTTokens(cfg.JWTSecret)

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	destinationService := services.NewDestinationService(destinationRepo)
	interestService := services.NewInterestService(interestRepo, destinationRepo)
	clusteringService := services.NewClusteringService(destinationRepo, interestRepo, groupRepo, cfg.ConfirmationWindow, logger)
	confirmationService := services.NewConfirmationService(confirmationRepo, groupRepo, interestRepo, destinationRepo, emailService, cfg.PaymentURLBase, cfg.ConfirmURLBase, logger)
	groupService := services.NewGroupService(groupRepo, confirmationRepo)
	authService := services.NewAuthService(userRepo, hasher, issuer, cfg.JWTExpiry)

	// Controllers
	interestController := controllers.NewInterestController(logger, interestService)
	destinationController := controllers.NewDestinationController(logger, destinationService)
	confirmationController := controllers.NewConfirmationController(logger, confirmationService)
	groupController := controllers.NewGroupController(logger, groupService, confirmationService)
	clusteringController := controllers.NewClusteringController(logger, clusteringService)
	authController := controllers.NewAuthController(logger, authService)

	mux := deliveryhttp.NewRouter(
		logger,
		verifier,
		interestController,
		destinationController,
		confirmationController,
		groupController,
		clusteringController,
		authController,
	)

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Deadline sweep: pending confirmations past their deadline resolve as
	// declines even when nobody opens the confirmation page.
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				expired, err := confirmationService.SweepExpired(ctx)
				if err != nil {
					logger.Error("deadline sweep failed", "err", err)
					continue
				}
				if expired > 0 {
					logger.Info("deadline sweep resolved confirmations", "expired", expired)
				}
			}
		}
	}()

	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}
