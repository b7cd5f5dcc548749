// Package main runs the Duoot polling API server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/racso574/duoot-api/config"
	"github.com/racso574/duoot-api/internal/auth"
	"github.com/racso574/duoot-api/internal/categories"
	"github.com/racso574/duoot-api/internal/comments"
	"github.com/racso574/duoot-api/internal/middleware"
	"github.com/racso574/duoot-api/internal/polls"
	"github.com/racso574/duoot-api/internal/posts"
	"github.com/racso574/duoot-api/internal/traits"
	"github.com/racso574/duoot-api/pkg/database"
	"github.com/racso574/duoot-api/pkg/response"
	"github.com/racso574/duoot-api/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	var images *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			ImagesBucket:    cfg.AWS.ImagesBucket,
		}
		images, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Users & traits
	traitRepo := traits.NewRepository(pool)
	traitHandler := traits.NewHandler(traitRepo)
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, traitRepo, jwtService, images, logger)

	// Posts
	postRepo := posts.NewRepository(pool)
	postHandler := posts.NewHandler(postRepo)

	// Poll engine (choices, votes, tallies)
	pollRepo := polls.NewRepository(pool)
	pollHandler := polls.NewHandler(pollRepo, postRepo)

	// Comments
	commentRepo := comments.NewRepository(pool)
	commentHandler := comments.NewHandler(commentRepo)

	// Categories
	categoryRepo := categories.NewRepository(pool)
	categoryHandler := categories.NewHandler(categoryRepo)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// Public reads
	router.GET("/users/:id/username", authHandler.GetUsername)
	router.GET("/posts", postHandler.List)
	router.GET("/posts/:id", postHandler.GetByID)
	router.GET("/posts/:id/choices", pollHandler.ListChoices)
	router.GET("/posts/:id/votes", pollHandler.ListVotesForPost)
	router.GET("/posts/:id/tally", pollHandler.Tally)
	router.GET("/posts/:id/comments", commentHandler.ListForPost)
	router.GET("/categories", categoryHandler.List)

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/users/me", authHandler.Me)
		api.GET("/users/me/profile-image", authHandler.ProfileImage)
		api.DELETE("/users/me", authHandler.DeleteMe)
		api.GET("/users/me/votes", pollHandler.ListMyVotes)

		api.GET("/traits", traitHandler.ListAvailable)
		api.GET("/users/:id/traits", traitHandler.ListForUser)
		api.PUT("/users/me/traits", traitHandler.Add)

		api.POST("/posts", postHandler.Create)
		api.PUT("/posts/:id", postHandler.Update)
		api.DELETE("/posts/:id", postHandler.Delete)

		api.POST("/posts/:id/choices", pollHandler.AddChoice)
		api.DELETE("/choices/:id", pollHandler.DeleteChoice)

		api.POST("/posts/:id/votes", pollHandler.CastVote)
		api.DELETE("/votes/:id", pollHandler.DeleteVote)

		api.POST("/posts/:id/comments", commentHandler.Create)
		api.DELETE("/comments/:id", commentHandler.Delete)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
