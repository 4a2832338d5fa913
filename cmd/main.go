package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"doctorcar-service/internal/config"
	"doctorcar-service/internal/database/minio"
	"doctorcar-service/internal/database/postgres"
	"doctorcar-service/internal/database/redis"
	"doctorcar-service/internal/event"
	"doctorcar-service/internal/handlers"
	"doctorcar-service/internal/repository"
	"doctorcar-service/internal/services"
	"doctorcar-service/internal/worker"

	"github.com/gofiber/fiber/v3"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/doctorcar", "log", "workshop_service")
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	slog.SetDefault(slog.New(slog.NewJSONHandler(file, nil)))

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()

	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connect to database: %s", err)
		go postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	redisClient, err := redis.NewRedisClient(cfg.RedisCfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	minioClient, err := minio.NewMinioClient(cfg.MinioCfg)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rabbitConn.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	claimRepo := repository.NewClaimRepository(db)
	budgetItemRepo := repository.NewBudgetItemRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	// Services
	authService := services.NewAuthService(userRepo,
		repository.NewSessionRepository(redisClient.GetClient(), services.SessionTTL()), cfg.OAuthCfg)
	userService := services.NewUserService(userRepo)
	vehicleService := services.NewVehicleService(vehicleRepo)
	billingService := services.NewBillingService(billingRepo, budgetItemRepo, claimRepo, paymentRepo, installmentRepo)
	budgetService := services.NewBudgetService(claimRepo, budgetItemRepo, billingRepo, installmentRepo, outboxRepo)
	paymentService := services.NewPaymentService(billingRepo, paymentRepo, installmentRepo, claimRepo, outboxRepo, minioClient)
	claimService := services.NewClaimService(claimRepo, vehicleRepo, userRepo, budgetItemRepo,
		appointmentRepo, billingService, outboxRepo, minioClient)
	appointmentService := services.NewAppointmentService(appointmentRepo, claimRepo)
	documentService := services.NewDocumentService(claimRepo, vehicleRepo, userRepo, budgetItemRepo,
		billingRepo, minioClient)

	// Event publishing and the outbox dispatcher
	publisher := event.NewNotificationPublisher(rabbitConn)
	notificationHelper := event.NewNotificationHelper(publisher)
	dispatcher := event.NewOutboxDispatcher(outboxRepo, notificationHelper, minioClient, documentService)

	// Background workers
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	var managerWg sync.WaitGroup

	pool := worker.NewWorkingPool(4, 64)
	managerWg.Add(1)
	go pool.Start(workerCtx, &managerWg)

	scheduler := worker.NewScheduler(pool, dispatcher, installmentRepo, outboxRepo)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// HTTP
	app := fiber.New()

	app.Get("/checkhealth", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Workshop service is healthy")
	})

	session := handlers.SessionMiddleware(authService)

	handlers.NewAuthHandler(authService, userService).Register(app)
	handlers.NewUserHandler(userService).Register(app, session)
	handlers.NewVehicleHandler(vehicleService).Register(app, session)
	handlers.NewClaimHandler(claimService, budgetService).Register(app, session)
	handlers.NewBillingHandler(billingService).Register(app, session)
	handlers.NewPaymentHandler(paymentService).Register(app, session)
	handlers.NewAppointmentHandler(appointmentService).Register(app, session)
	handlers.NewDocumentHandler(documentService, outboxRepo).Register(app, session)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Workshop service listening on port %s", cfg.Port)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received")

	scheduler.Stop()
	cancelWorkers()
	managerWg.Wait()

	if err := app.Shutdown(); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	log.Println("Workshop service stopped")
}
