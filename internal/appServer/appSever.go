package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roombook/reservation-service/config"
	"github.com/roombook/reservation-service/internal/database/memory"
	repository "github.com/roombook/reservation-service/internal/database/postgres"
	rediscache "github.com/roombook/reservation-service/internal/database/redis"
	"github.com/roombook/reservation-service/internal/service"
	"github.com/roombook/reservation-service/internal/transport"

	"github.com/roombook/reservation-service/pkg/postgres"
	"github.com/roombook/reservation-service/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},           // ban on outdate TLS certificate
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags), // os.Stderr can be replaced with ElsasticSearch in the feature
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize storage
	var reservationRepo repository.ReservationRepository

	switch cfg.App.Storage {
	case "memory":
		reservationRepo = memory.NewReservationRepository()
		logrus.Info("Using in-memory storage")
	case "postgres":
		db, err := postgres.NewPostgresDB(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		// Run database migrations
		if err := postgres.RunMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}

		reservationRepo = repository.NewReservationRepository(db)
	default:
		logrus.Fatalf("Unknown storage type: %s", cfg.App.Storage)
	}

	// Initialize cache
	var reservationCache service.ReservationCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewRedisClient(&cfg.Redis)
		defer redisClient.Close()

		reservationCache = rediscache.NewCacheRepository(redisClient, cfg.App.CacheTTL)
		logrus.Info("Redis cache initialized")
	} else {
		logrus.Warn("Redis disabled, reservation cache is off")
	}

	// Initialize services
	reservationService := service.NewReservationService(reservationRepo, reservationCache, &service.ReservationServiceConfig{
		DefaultPageSize: cfg.App.DefaultPageSize,
	})
	availabilityService := service.NewAvailabilityService(reservationRepo)

	// Initialize handlers
	reservationHandler := transport.NewReservationHandler(reservationService)
	availabilityHandler := transport.NewAvailabilityHandler(availabilityService)

	// Setup HTTP server
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(reservationHandler, availabilityHandler, cfg.Server.Timeout)); err != nil {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
