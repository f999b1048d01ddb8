// Netobs Ingest — принимает pcap-файлы из каталога приёма.
//
// Ingest:
//   - Опрашивает VALIDATION_DIRECTORY по FILE_FILTERS раз в FILE_POLLING_INTERVAL
//   - Берёт только файлы, которые никто не держит открытыми на запись
//   - Заводит job в журнале обработки и переносит файл в VALIDATED_DIRECTORY
//   - Ставит файл в очередь обработчика pcap
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Netobs/internal/config"
	"github.com/shaiso/Netobs/internal/ingest"
	"github.com/shaiso/Netobs/internal/mq"
	"github.com/shaiso/Netobs/internal/repo"
	"github.com/shaiso/Netobs/internal/telemetry"
	"github.com/shaiso/Netobs/internal/watcher"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger("netobs-ingest")
	logger.Info("starting netobs-ingest")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err == nil {
		err = cfg.RequireWatchDirectory()
	}
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	for _, dir := range []string{cfg.ValidationDirectory, cfg.ValidatedDirectory, cfg.ErrorDirectory} {
		if dir == "" {
			continue
		}
		if err := config.CreateDirectory(dir, false); err != nil {
			logger.Error("failed to prepare directory", "error", err)
			os.Exit(1)
		}
	}

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)

	// DB pool
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
	logger.Info("database connected")

	// RabbitMQ: соединение открывается лениво при первой публикации
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

	svc, err := ingest.New(ingest.Config{
		Jobs:         repo.NewJobRepo(pool),
		Publisher:    messenger,
		PcapQueue:    cfg.PcapProcessQueue,
		StateQueue:   cfg.JobStateQueue,
		ValidatedDir: cfg.ValidatedDirectory,
		ErrorDir:     cfg.ErrorDirectory,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("failed to create ingest service", "error", err)
		os.Exit(1)
	}

	w, err := watcher.New(watcher.Config{
		Dir:     cfg.ValidationDirectory,
		Filters: cfg.FileFilters,
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		logger.Error("failed to create watcher", "error", err)
		os.Exit(1)
	}
	defer w.Close()

	w.OnFileReady(svc.Handler(ctx))
	if err := w.StartPolling(cfg.PollingInterval); err != nil {
		logger.Error("failed to start polling", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if cfg.MetricsPort != "" {
		port = ":" + cfg.MetricsPort
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	w.StopPolling()
	logger.Info("netobs-ingest stopped")
}
