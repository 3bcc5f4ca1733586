package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"groupgetaway/internal/delivery/http/controllers"
	"groupgetaway/internal/delivery/http/middleware"
	"groupgetaway/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	interestController *controllers.InterestController,
	destinationController *controllers.DestinationController,
	confirmationController *controllers.ConfirmationController,
	groupController *controllers.GroupController,
	clusteringController *controllers.ClusteringController,
	authController *controllers.AuthController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)
	admin := middleware.RequireRole(domain.RoleAdmin)

	// Public surface
	mux.HandleFunc("POST /interests", interestController.Create)
	mux.HandleFunc("GET /destinations", destinationController.List)
	mux.HandleFunc("GET /destinations/{destinationID}", destinationController.Get)
	mux.HandleFunc("GET /groups/{groupID}/confirm/{token}", confirmationController.Status)
	mux.HandleFunc("POST /groups/{groupID}/confirm/{token}", confirmationController.Respond)
	mux.HandleFunc("POST /payments/callback", confirmationController.PaymentCallback)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Operator surface
	mux.HandleFunc("GET /interests", auth(interestController.List))
	mux.HandleFunc("GET /groups", auth(groupController.List))
	mux.HandleFunc("GET /groups/{groupID}", auth(groupController.Get))
	mux.HandleFunc("POST /groups/{groupID}/send-confirmations", auth(groupController.SendConfirmations))
	mux.HandleFunc("POST /clustering/trigger", auth(clusteringController.Trigger))
	mux.HandleFunc("POST /destinations", auth(admin(destinationController.Create)))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
