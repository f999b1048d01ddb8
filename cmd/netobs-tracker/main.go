// Netobs Tracker — ведёт журнал обработки по сообщениям pipeline.
//
// Tracker:
//   - Подписывается на JOB_STATE_QUEUE и меняет статусы jobs
//   - Подписывается на EVENTDATA_PROCESS_QUEUE и сохраняет метаданные событий
//   - Отдаёт jobs API, /healthz и /metrics
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Netobs/internal/api"
	"github.com/shaiso/Netobs/internal/config"
	"github.com/shaiso/Netobs/internal/mq"
	"github.com/shaiso/Netobs/internal/repo"
	"github.com/shaiso/Netobs/internal/telemetry"
	"github.com/shaiso/Netobs/internal/tracker"
)

var startTime = time.Now()

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger("netobs-tracker")
	logger.Info("starting netobs-tracker")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	// Подключаемся к базе данных
	pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := repo.EnsureSchema(ctx, pool); err != nil {
		logger.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	jobRepo := repo.NewJobRepo(pool)

	conn, err := mq.NewConnection(&cfg.MQ, nil, logger)
	if err != nil {
		logger.Error("invalid RabbitMQ settings", "error", err)
		os.Exit(1)
	}
	defer conn.Dispose()

	messenger, err := mq.NewMessenger(conn, logger, metrics)
	if err != nil {
		logger.Error("failed to create messenger", "error", err)
		os.Exit(1)
	}

	svc, err := tracker.New(tracker.Config{
		Jobs:       jobRepo,
		Events:     repo.NewEventRepo(pool),
		Messenger:  messenger,
		StateQueue: cfg.JobStateQueue,
		EventQueue: cfg.EventDataProcessQueue,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to create tracker", "error", err)
		os.Exit(1)
	}
	if err := svc.Start(ctx); err != nil {
		logger.Error("failed to start tracker", "error", err)
		os.Exit(1)
	}

	handler := api.NewHandler(api.Config{
		Jobs:   jobRepo,
		Logger: logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":8081"
	if cfg.MetricsPort != "" {
		addr = ":" + cfg.MetricsPort
	}

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
