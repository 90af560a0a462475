package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"game-service/internal/config"
	"game-service/internal/db"
	"game-service/internal/event"
	"game-service/internal/handlers"
	"game-service/internal/repository"
	"game-service/internal/selection"
	"game-service/internal/service"
	"game-service/pkg/cache"
	"game-service/pkg/discovery"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()
	logger := log.New(os.Stdout, "[game-service] ", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoDB.Timeout)
	mongoClient, err := db.Connect(ctx, &cfg.MongoDB)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()
	database := mongoClient.Database(cfg.MongoDB.Database)

	gameRepo := repository.NewGameRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	submissionRepo := repository.NewSubmissionRepository(database)
	questionRepo := repository.NewQuestionRepository(database)
	roomRepo := repository.NewRoomRepository(database)

	// The unique (game_id, student_id) index backs session idempotency and
	// must exist before traffic arrives.
	if err := sessionRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create session indexes: %v", err)
	}

	var cacheClient service.Cache
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Printf("Redis not available, running without cache: %v", err)
	} else {
		cacheClient = redisClient
		defer redisClient.Close()
	}

	var publisher *event.EventPublisher
	if cfg.RabbitMQ.URI != "" {
		publisher, err = event.NewEventPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange, logger)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	if cfg.Consul.Address != "" {
		registry, err := discovery.NewServiceRegistry(cfg)
		if err != nil {
			logger.Printf("Consul client init failed: %v", err)
		} else if err := registry.Register(); err != nil {
			logger.Printf("Consul registration failed: %v", err)
		} else {
			defer registry.Deregister()
		}
	}

	selector := selection.NewPoolSelector(questionRepo)
	gameService := service.NewGameService(gameRepo, selector, cacheClient, cfg.Redis.CacheTTL, logger)
	sessionService := service.NewSessionService(sessionRepo, roomRepo, gameService, cacheClient, logger)
	gradingService := service.NewGradingService(sessionRepo, submissionRepo, questionRepo, gameService, logger)

	gameHandler := handlers.NewGameHandler(gameService, gradingService, selector)
	sessionHandler := handlers.NewSessionHandler(sessionService, gradingService)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.Server.ServiceName})
	})

	setupGameRoutes(r, gameHandler, publisher)
	setupSessionRoutes(r, sessionHandler, publisher)

	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Forced shutdown: %v", err)
	}
}

// requireUser rejects requests that arrive without the gateway-injected
// identity header.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// publishAfter wraps a handler and emits an event once it succeeds.
func publishAfter(publisher *event.EventPublisher, eventType string, handler gin.HandlerFunc, payload func(c *gin.Context) gin.H) gin.HandlerFunc {
	return func(c *gin.Context) {
		handler(c)
		if publisher != nil && c.Writer.Status() < http.StatusBadRequest {
			publisher.Publish(eventType, payload(c))
		}
	}
}

func setupGameRoutes(r *gin.Engine, gameHandler *handlers.GameHandler, publisher *event.EventPublisher) {
	protectedGame := r.Group("/protected/game")
	protectedGame.Use(requireUser())
	{
		protectedGame.POST("/", publishAfter(publisher, "game.created", gameHandler.CreateGame, func(c *gin.Context) gin.H {
			return gin.H{
				"creator_id": c.GetHeader("X-User-ID"),
				"timestamp":  time.Now(),
			}
		}))

		protectedGame.POST("/room/:roomId/:gameId/start", publishAfter(publisher, "game.started", gameHandler.StartGame, func(c *gin.Context) gin.H {
			return gin.H{
				"room_id":   c.Param("roomId"),
				"game_id":   c.Param("gameId"),
				"user_id":   c.GetHeader("X-User-ID"),
				"timestamp": time.Now(),
			}
		}))

		protectedGame.PUT("/room/:roomId/:gameId/dates", publishAfter(publisher, "game.dates_changed", gameHandler.ChangeDates, func(c *gin.Context) gin.H {
			return gin.H{
				"room_id":   c.Param("roomId"),
				"game_id":   c.Param("gameId"),
				"user_id":   c.GetHeader("X-User-ID"),
				"timestamp": time.Now(),
			}
		}))
	}

	publicGame := r.Group("/public/game")
	{
		publicGame.GET("/:gameId", gameHandler.GetGame)
		publicGame.GET("/:gameId/results", gameHandler.GameResults)
		publicGame.GET("/pool/info", gameHandler.PoolInfo)
	}
}

func setupSessionRoutes(r *gin.Engine, sessionHandler *handlers.SessionHandler, publisher *event.EventPublisher) {
	protectedSession := r.Group("/protected/game/:gameId/session")
	protectedSession.Use(requireUser())
	{
		protectedSession.POST("/", publishAfter(publisher, "game.session.started", sessionHandler.StartSession, func(c *gin.Context) gin.H {
			return gin.H{
				"game_id":   c.Param("gameId"),
				"user_id":   c.GetHeader("X-User-ID"),
				"timestamp": time.Now(),
			}
		}))

		protectedSession.POST("/answer", publishAfter(publisher, "game.answer.submitted", sessionHandler.SubmitAnswer, func(c *gin.Context) gin.H {
			return gin.H{
				"game_id":   c.Param("gameId"),
				"user_id":   c.GetHeader("X-User-ID"),
				"timestamp": time.Now(),
			}
		}))

		protectedSession.GET("/", sessionHandler.GetSession)
		protectedSession.GET("/progress", sessionHandler.GetProgress)
		protectedSession.GET("/answers", sessionHandler.GetAnswers)
	}
}
