package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relaunchapp/followup-service/internal/infra/database"
	"github.com/relaunchapp/followup-service/internal/infra/http/handlers"
	"github.com/relaunchapp/followup-service/internal/infra/http/middleware"
	"github.com/relaunchapp/followup-service/internal/infra/mail"
	"github.com/relaunchapp/followup-service/internal/infra/queue"
	"github.com/relaunchapp/followup-service/internal/infra/worker"
	"github.com/relaunchapp/followup-service/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "user"),
		envOr("RABBITMQ_PASS", "password"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		panic(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositories
	prospectRepo := database.NewProspectRepository(db)
	templateRepo := database.NewTemplateRepository(db)
	historyRepo := database.NewHistoryRepository(db)
	settingsRepo := database.NewSettingsRepository(db)
	jobLogRepo := database.NewJobLogRepository(db)

	// 2. Transports and adapters
	smtpPort, _ := strconv.Atoi(envOr("MAIL_PORT", "587"))
	smtpSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), smtpPort, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
	)
	transports := mail.NewRegistry(
		smtpSender,
		envOr("FROM_EMAIL", "main@relaunch.fr"),
		envOr("FROM_NAME", "ReLaunch App"),
	)
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

	// 3. UseCases
	resolver := usecase.NewTemplateResolver(templateRepo)
	dispatchUC := usecase.NewDispatchEmailUseCase(
		prospectRepo, templateRepo, historyRepo, settingsRepo,
		resolver, transports, usecase.DefaultDispatchConfig(),
	)
	runUC := usecase.NewRunFollowupsUseCase(
		prospectRepo, jobLogRepo, dispatchUC, usecase.DefaultDispatchConfig(),
	)

	// 4. Workers (queue consumer + periodic batch)
	dispatchWorker := queue.NewWorker(rabbitMQ.Ch, dispatchUC)
	go dispatchWorker.Start(queue.QueueName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tick, _ := time.ParseDuration(envOr("FOLLOWUP_TICK", "1h"))
	followupWorker := worker.NewFollowupWorker(func(ctx context.Context, now time.Time) error {
		_, err := runUC.Execute(ctx, now)
		return err
	}, tick)
	go followupWorker.Start(ctx)

	// 5. Handlers
	sendHandler := handlers.NewSendHandler(dispatchUC, producer)
	followupHandler := handlers.NewFollowupHandler(runUC)
	prospectHandler := handlers.NewProspectHandler(prospectRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/send", sendHandler.Handle)
	r.Post("/send/async", sendHandler.HandleAsync)
	r.Post("/followups/run", followupHandler.Handle)
	r.Post("/prospects", prospectHandler.Capture)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":8080"
	log.Printf("🔥 ReLaunch follow-up service listening on %s", port)
	http.ListenAndServe(port, r)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
