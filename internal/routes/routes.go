// Package routes defines the API routing configuration.
// It wires repositories, services and handlers, and applies the auth
// middleware to the protected groups.
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/sabridemirel/arayanibul-sub001/internal/config"
	"github.com/sabridemirel/arayanibul-sub001/internal/handlers"
	"github.com/sabridemirel/arayanibul-sub001/internal/middleware"
	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/auth"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/message"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/need"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/notification"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/offer"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/payment"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/review"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/search"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/user"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/wallet"
)

// SetupRoutes configures all application routes. The notification service is
// created by the caller so its worker can be drained on shutdown.
func SetupRoutes(app *fiber.App, db *gorm.DB, notificationSvc *notification.Service) {
	// Repositories
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	needRepo := repositories.NewNeedRepository(db)
	offerRepo := repositories.NewOfferRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	conversationRepo := repositories.NewConversationRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	walletRepo := repositories.NewWalletRepository(db)

	// Services
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo)
	needService := need.NewService(needRepo, categoryRepo, repositories.CacheService)
	offerService := offer.NewService(offerRepo, needRepo, notificationSvc)
	searchService := search.NewService(needRepo)
	reviewService := review.NewService(reviewRepo, offerRepo, userRepo, notificationSvc)
	messageService := message.NewService(conversationRepo, needRepo, notificationSvc)
	walletService := wallet.NewService(walletRepo, repositories.CacheService)

	gateway := payment.NewStripeGateway(config.GetEnv("STRIPE_SECRET_KEY", ""))
	paymentService := payment.NewService(
		transactionRepo,
		offerRepo,
		gateway,
		notificationSvc,
		config.GetEnv("PAYMENT_RETURN_URL", "https://arayanibul.app/payment/callback"),
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService, reviewService)
	needHandler := handlers.NewNeedHandler(needService, offerService, searchService)
	offerHandler := handlers.NewOfferHandler(offerService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	messageHandler := handlers.NewMessageHandler(messageService)
	notificationHandler := handlers.NewNotificationHandler(notificationSvc)
	walletHandler := handlers.NewWalletHandler(walletService)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	adminHandler := handlers.NewAdminHandler(userService, transactionRepo)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Arayanibul API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)
	api.Get("/categories", categoryHandler.List)
	api.Get("/needs/search", needHandler.Search)

	// Gateway-invoked after 3-D Secure; authenticated by conversation id
	api.Post("/payment/callback", paymentHandler.Callback)

	authMiddleware := middleware.NewAuthMiddleware(userRepo)
	protected := api.Use(authMiddleware.Handler)

	setupProfileRoutes(protected, authHandler, userHandler)
	setupNeedRoutes(protected, needHandler)
	setupOfferRoutes(protected, offerHandler)
	setupPaymentRoutes(protected, paymentHandler)
	setupMessagingRoutes(protected, reviewHandler, messageHandler, notificationHandler, userHandler)
	protected.Get("/wallet", walletHandler.GetBalance)

	setupAdminRoutes(app, authMiddleware, adminHandler, reviewHandler, notificationSvc)
}

func setupProfileRoutes(router fiber.Router, authHandler *handlers.AuthHandler, userHandler *handlers.UserHandler) {
	router.Get("/me", userHandler.GetMe)
	router.Put("/me", userHandler.UpdateProfile)
	router.Post("/me/push-token", userHandler.RegisterPushToken)
	router.Get("/users/:id", userHandler.GetUser)
	router.Post("/change-password", middleware.HasPermission(models.PermissionChangePassword), authHandler.ChangePassword)
	router.Post("/logout", authHandler.Logout)
}

func setupNeedRoutes(router fiber.Router, h *handlers.NeedHandler) {
	router.Post("/need", middleware.HasPermission(models.PermissionNeedWrite), h.Create)
	router.Get("/need/:id", h.Get)
	router.Put("/need/:id", middleware.HasPermission(models.PermissionNeedWrite), h.Update)
	router.Delete("/need/:id", middleware.HasPermission(models.PermissionNeedWrite), h.Cancel)
	router.Get("/need/:id/offers", h.ListOffers)
	router.Get("/needs/mine", h.ListMine)
	router.Get("/needs/recommended", h.Recommended)
}

func setupOfferRoutes(router fiber.Router, h *handlers.OfferHandler) {
	router.Post("/offer", middleware.HasPermission(models.PermissionOfferWrite), h.Create)
	router.Get("/offer/:id", h.Get)
	router.Post("/offer/:id/accept", middleware.HasPermission(models.PermissionOfferWrite), h.Accept)
	router.Post("/offer/:id/reject", middleware.HasPermission(models.PermissionOfferWrite), h.Reject)
	router.Post("/offer/:id/withdraw", middleware.HasPermission(models.PermissionOfferWrite), h.Withdraw)
	router.Delete("/offer/:id", middleware.HasPermission(models.PermissionOfferWrite), h.Delete)
	router.Get("/offers/mine", h.ListMine)
}

func setupPaymentRoutes(router fiber.Router, h *handlers.PaymentHandler) {
	router.Post("/payment/initialize", middleware.HasPermission(models.PermissionPaymentWrite), h.Initialize)
	router.Post("/payment/release/:id", middleware.HasPermission(models.PermissionPaymentWrite), h.Release)
	router.Post("/payment/refund/:id", middleware.HasPermission(models.PermissionPaymentWrite), h.Refund)
	router.Get("/payment/:id", h.Get)
	router.Get("/payments", h.ListMine)
}

func setupMessagingRoutes(router fiber.Router, reviewHandler *handlers.ReviewHandler, messageHandler *handlers.MessageHandler, notificationHandler *handlers.NotificationHandler, userHandler *handlers.UserHandler) {
	router.Post("/review", middleware.HasPermission(models.PermissionReviewWrite), reviewHandler.Create)
	router.Get("/users/:id/reviews", userHandler.GetUserReviews)

	router.Post("/message", middleware.HasPermission(models.PermissionMessageWrite), messageHandler.Send)
	router.Get("/conversations", messageHandler.ListConversations)
	router.Get("/conversations/:id/messages", messageHandler.ListMessages)
	router.Post("/conversations/:id/read", messageHandler.MarkRead)

	router.Get("/notifications", notificationHandler.List)
	router.Post("/notifications/:id/read", notificationHandler.MarkRead)
	router.Post("/notifications/read-all", notificationHandler.MarkAllRead)
}

func setupAdminRoutes(app *fiber.App, authMiddleware *middleware.AuthMiddleware, adminHandler *handlers.AdminHandler, reviewHandler *handlers.ReviewHandler, notificationSvc *notification.Service) {
	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)

	admin.Get("/users", middleware.HasPermission(models.PermissionReadAdmin), adminHandler.ListUsers)
	admin.Put("/users/:id/status", middleware.HasPermission(models.PermissionWriteAdmin), adminHandler.SetUserStatus)
	admin.Get("/users/:id/transactions", middleware.HasPermission(models.PermissionReadAdmin), adminHandler.ListUserTransactions)
	admin.Put("/reviews/:id/visibility", middleware.HasPermission(models.PermissionWriteAdmin), reviewHandler.SetVisibility)
	admin.Get("/notifications/stats", middleware.HasPermission(models.PermissionReadAdmin), handlers.NotificationStats(notificationSvc))
}
