package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"keenpages/internal/config"
	"keenpages/internal/database"
	"keenpages/internal/handlers"
	"keenpages/internal/repository"
	"keenpages/internal/security"
	"keenpages/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	statRepo := repository.NewStatRepository(db)
	shelfRepo := repository.NewShelfRepository(db)

	// Services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	authService := service.NewAuthService(userRepo, emailService, cfg.JWTSecret, cfg.TokenDuration)
	userService := service.NewUserService(userRepo, bookRepo)
	bookService := service.NewBookService(bookRepo, topicRepo)
	topicService := service.NewTopicService(topicRepo)
	shelfService := service.NewShelfService(shelfRepo, bookRepo)
	statService := service.NewStatService(statRepo, userRepo, bookRepo, topicRepo)

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name:  "facebook",
			Label: "Facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Endpoint:     facebook.Endpoint,
				Scopes:       []string{"email", "public_profile"},
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
	}

	// Handlers
	rateLimiter := security.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	middleware := handlers.NewMiddleware(authService, rateLimiter)
	authHandler := handlers.NewAuthHandler(authService, oauthProviders, cfg.AppBaseURL, cfg.AppBaseURL)
	userHandler := handlers.NewUserHandler(userService)
	bookHandler := handlers.NewBookHandler(bookService)
	topicHandler := handlers.NewTopicHandler(topicService)
	shelfHandler := handlers.NewShelfHandler(shelfService)
	statHandler := handlers.NewStatHandler(statService)

	mux := http.NewServeMux()
	mux.HandleFunc("/", handlers.NotFound)

	// Auth routes
	mux.HandleFunc("POST /user/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /user/auth", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /user/forgotPass", middleware.RateLimit(authHandler.ForgotPass))
	mux.HandleFunc("POST /user/resetPass", middleware.RateLimit(authHandler.ResetPass))
	mux.HandleFunc("POST /user/changePass", middleware.RequireAuth(authHandler.ChangePass))
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// User routes
	mux.HandleFunc("GET /user/me", middleware.RequireAuth(userHandler.Me))
	mux.HandleFunc("GET /user/details/{id}", middleware.RequireAuth(userHandler.Details))
	mux.HandleFunc("GET /user/readBooks", middleware.RequireAuth(userHandler.ReadBooks))
	mux.HandleFunc("POST /user/toggleRead/{bookId}", middleware.RequireAuth(userHandler.ToggleReadBook))
	mux.HandleFunc("POST /user/toggleSaved/{bookId}", middleware.RequireAuth(userHandler.ToggleSavedBook))

	// Book routes
	mux.HandleFunc("GET /book/all", bookHandler.List)
	mux.HandleFunc("GET /book/search", bookHandler.Search)
	mux.HandleFunc("GET /book/single/{id}", bookHandler.Get)
	mux.HandleFunc("GET /book/byTopic/{topicId}", bookHandler.ByTopic)
	mux.HandleFunc("POST /book/add", middleware.RequireAuth(bookHandler.Create))
	mux.HandleFunc("POST /book/addTopic/{id}", middleware.RequireAuth(bookHandler.AddTopic))
	mux.HandleFunc("POST /book/toggleAgree/{id}", middleware.RequireAuth(bookHandler.ToggleAgree))
	mux.HandleFunc("POST /book/toggleLike/{id}", middleware.RequireAuth(bookHandler.ToggleLike))

	// Topic routes
	mux.HandleFunc("GET /topic/all", topicHandler.List)
	mux.HandleFunc("GET /topic/search", topicHandler.Search)
	mux.HandleFunc("GET /topic/single/{id}", topicHandler.Get)
	mux.HandleFunc("POST /topic/add", middleware.RequireAuth(topicHandler.Create))
	mux.HandleFunc("POST /topic/similar/{id}", middleware.RequireAdmin(topicHandler.LinkSimilar))

	// Shelf routes
	mux.HandleFunc("GET /shelf/single/{id}", middleware.OptionalAuth(shelfHandler.Get))
	mux.HandleFunc("GET /shelf/byUser/{userId}", middleware.OptionalAuth(shelfHandler.ByOwner))
	mux.HandleFunc("POST /shelf/add", middleware.RequireAuth(shelfHandler.Create))
	mux.HandleFunc("PUT /shelf/edit/{id}", middleware.RequireAuth(shelfHandler.Update))
	mux.HandleFunc("DELETE /shelf/remove/{id}", middleware.RequireAuth(shelfHandler.Delete))
	mux.HandleFunc("POST /shelf/{id}/addBook/{bookId}", middleware.RequireAuth(shelfHandler.AddBook))
	mux.HandleFunc("DELETE /shelf/{id}/removeBook/{bookId}", middleware.RequireAuth(shelfHandler.RemoveBook))
	mux.HandleFunc("POST /shelf/follow/{id}", middleware.RequireAuth(shelfHandler.Follow))
	mux.HandleFunc("POST /shelf/unfollow/{id}", middleware.RequireAuth(shelfHandler.Unfollow))

	// Stat routes
	mux.HandleFunc("GET /stat/single/{id}", middleware.RequireAuth(statHandler.GetSingle))
	mux.HandleFunc("POST /stat/addSkill", middleware.RequireAuth(statHandler.AddSkill))
	mux.HandleFunc("POST /stat/generateStats", middleware.RequireAuth(statHandler.GenerateStats))
	mux.HandleFunc("PUT /stat/editSkill/{statId}", middleware.RequireAuth(statHandler.EditSkill))
	mux.HandleFunc("DELETE /stat/removeSkill/{statId}/{figureId}", middleware.RequireAuth(statHandler.RemoveSkill))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background cleanup of expired reset tokens
	go cleanupExpiredTokens(authService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupExpiredTokens periodically removes expired password reset tokens
func cleanupExpiredTokens(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredPasswordResetTokens(); err != nil {
			log.Printf("Error cleaning up expired reset tokens: %v", err)
		}
	}
}
