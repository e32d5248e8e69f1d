package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/varsityhub/backend/internal/database"
	"github.com/varsityhub/backend/internal/handlers"
	"github.com/varsityhub/backend/internal/middleware"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	db := database.New()
	handler := handlers.NewHandler(db.GetDB())

	newServer := &Server{
		db:      db,
		handler: handler,
	}

	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)
		api.POST("/verify-phone", s.handler.Auth.VerifyPhone)

		// Directory routes (public reads)
		api.GET("/institutions", s.handler.Course.GetInstitutions)
		api.GET("/courses", s.handler.Course.GetCourses)
		api.GET("/users/:id", s.handler.User.GetUserProfile)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/me", s.handler.Auth.GetMe)
			protected.PUT("/users/:id", s.handler.User.UpdateUserProfile)

			// Courses and enrollments
			protected.POST("/courses", s.handler.Course.CreateCourse)
			protected.POST("/courses/:id/enroll", s.handler.Course.Enroll)
			protected.DELETE("/courses/:id/enroll", s.handler.Course.Unenroll)
			protected.GET("/me/courses", s.handler.Course.GetMyCourses)

			// Q&A forum
			protected.GET("/questions", s.handler.Question.GetQuestions)
			protected.POST("/questions", s.handler.Question.CreateQuestion)
			protected.GET("/questions/:id", s.handler.Question.GetQuestion)
			protected.DELETE("/questions/:id", s.handler.Question.DeleteQuestion)
			protected.GET("/questions/:id/answers", s.handler.Question.GetAnswers)
			protected.POST("/questions/:id/answers", s.handler.Question.CreateAnswer)
			protected.POST("/answers/:answerId/accept", s.handler.Question.AcceptAnswer)
			protected.DELETE("/answers/:answerId", s.handler.Question.DeleteAnswer)
			protected.POST("/vote/:type/:id", s.handler.Question.Vote)

			// Social feed
			protected.GET("/posts", s.handler.Post.GetPosts)
			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.DELETE("/posts/:id", s.handler.Post.DeletePost)
			protected.POST("/posts/:id/like", s.handler.Post.LikePost)
			protected.GET("/posts/:id/comments", s.handler.Post.GetComments)
			protected.POST("/posts/:id/comments", s.handler.Post.CreateComment)
			protected.DELETE("/comments/:commentId", s.handler.Post.DeleteComment)

			// Notes board
			protected.GET("/notes", s.handler.Note.GetNotes)
			protected.POST("/notes", s.handler.Note.CreateNote)
			protected.DELETE("/notes/:id", s.handler.Note.DeleteNote)
			protected.POST("/notes/:id/like", s.handler.Note.LikeNote)
			protected.GET("/notes/:id/download", s.handler.Note.DownloadNote)
		}
	}

	return r
}
