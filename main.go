package main

import (
	"log"
	"net/http"
	"os"

	"reviewhub-api/config"
	"reviewhub-api/handlers"
	"reviewhub-api/middleware"
	"reviewhub-api/notifier"
	"reviewhub-api/repositories"
	"reviewhub-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	db := config.InitDB()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	genreRepo := repositories.NewGenreRepository(db)
	titleRepo := repositories.NewTitleRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	commentRepo := repositories.NewCommentRepository(db)

	// Initialize services
	tokenService := services.NewTokenService(config.JWTSecret, config.TokenTTL)
	authService := services.NewAuthService(userRepo, tokenService, notifier.FromEnv())
	userService := services.NewUserService(userRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	genreService := services.NewGenreService(genreRepo)
	titleService := services.NewTitleService(titleRepo, categoryRepo, genreRepo)
	reviewService := services.NewReviewService(reviewRepo, titleRepo)
	commentService := services.NewCommentService(commentRepo, reviewRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	genreHandler := handlers.NewGenreHandler(genreService)
	titleHandler := handlers.NewTitleHandler(titleService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	commentHandler := handlers.NewCommentHandler(commentService)

	// Setup router
	router := gin.Default()

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimit(rate.Limit(10), 20))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identify(tokenService, userRepo))
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/token", authHandler.GetToken)
		}

		// Users (self profile + admin collection)
		users := v1.Group("/users")
		{
			users.GET("/me", middleware.RequireAuth(), authHandler.GetMe)
			users.PATCH("/me", middleware.RequireAuth(), authHandler.UpdateMe)

			users.GET("", userHandler.GetUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:username", userHandler.GetUser)
			users.PATCH("/:username", userHandler.UpdateUser)
			users.DELETE("/:username", userHandler.DeleteUser)
		}

		// Categories
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.POST("", categoryHandler.CreateCategory)
			categories.DELETE("/:slug", categoryHandler.DeleteCategory)
		}

		// Genres
		genres := v1.Group("/genres")
		{
			genres.GET("", genreHandler.GetGenres)
			genres.POST("", genreHandler.CreateGenre)
			genres.DELETE("/:slug", genreHandler.DeleteGenre)
		}

		// Titles with nested reviews and comments
		titles := v1.Group("/titles")
		{
			titles.GET("", titleHandler.GetTitles)
			titles.POST("", titleHandler.CreateTitle)
			titles.GET("/:title_id", titleHandler.GetTitle)
			titles.PATCH("/:title_id", titleHandler.UpdateTitle)
			titles.DELETE("/:title_id", titleHandler.DeleteTitle)

			reviews := titles.Group("/:title_id/reviews")
			{
				reviews.GET("", reviewHandler.GetReviews)
				reviews.POST("", reviewHandler.CreateReview)
				reviews.GET("/:review_id", reviewHandler.GetReview)
				reviews.PATCH("/:review_id", reviewHandler.UpdateReview)
				reviews.DELETE("/:review_id", reviewHandler.DeleteReview)

				comments := reviews.Group("/:review_id/comments")
				{
					comments.GET("", commentHandler.GetComments)
					comments.POST("", commentHandler.CreateComment)
					comments.GET("/:comment_id", commentHandler.GetComment)
					comments.PATCH("/:comment_id", commentHandler.UpdateComment)
					comments.DELETE("/:comment_id", commentHandler.DeleteComment)
				}
			}
		}
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
