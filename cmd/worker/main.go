package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avoskres/plainlegal/internal/bootstrap"
	"github.com/avoskres/plainlegal/internal/config"
	"github.com/avoskres/plainlegal/internal/observability/logging"
	"github.com/avoskres/plainlegal/internal/observability/metrics"
)

const (
	serviceName    = "worker"
	processTimeout = 5 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load_config_failed", "error", err)
		os.Exit(1)
	}
	logging.Setup(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	app.Processor.SetObserver(&pipelineObserver{metrics: workerMetrics})

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics_server_failed", "error", err)
		}
	}()

	handler := func(msgCtx context.Context, documentID string) error {
		processCtx, cancel := context.WithTimeout(msgCtx, processTimeout)
		defer cancel()

		// The document row is written before the id is published, so its
		// last update approximates the enqueue time.
		if doc, err := app.Documents.GetByID(processCtx, documentID); err == nil {
			workerMetrics.ObserveQueueLag(serviceName, time.Since(doc.UpdatedAt))
		}

		workerMetrics.StartDocument()
		start := time.Now()
		err := app.Processor.Process(processCtx, documentID)
		workerMetrics.FinishDocument(serviceName, time.Since(start), err)
		if err != nil {
			slog.Error("document_process_failed", "document_id", documentID, "error", err)
			return err
		}
		slog.Info("document_processed", "document_id", documentID, "duration", time.Since(start))
		return nil
	}

	if err := app.Queue.SubscribeDocumentQueued(ctx, handler); err != nil {
		slog.Error("queue_subscribe_failed", "error", err)
		os.Exit(1)
	}
	slog.Info("worker_consuming", "subject", cfg.NATSSubject)

	go sweepStaleDocuments(ctx, app, workerMetrics, cfg)

	<-ctx.Done()
	slog.Info("shutdown_signal_received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics_shutdown_failed", "error", err)
	}
	slog.Info("worker_stopped")
}

// pipelineObserver feeds processing telemetry into the worker's registry.
type pipelineObserver struct {
	metrics *metrics.WorkerMetrics
}

func (o *pipelineObserver) ObserveSections(count int) {
	o.metrics.ObserveSections(serviceName, count)
}

func (o *pipelineObserver) RecordFallback(stage string) {
	o.metrics.RecordFallback(serviceName, stage)
}

// sweepStaleDocuments periodically fails documents stuck in processing so a
// crashed worker cannot leave them pending forever.
func sweepStaleDocuments(ctx context.Context, app *bootstrap.App, m *metrics.WorkerMetrics, cfg config.Config) {
	ticker := time.NewTicker(time.Duration(cfg.StaleSweepIntervalSecs) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept, err := app.Documents.FailStaleProcessing(ctx, cfg.StaleAfterSecs)
			if err != nil {
				slog.Warn("stale_sweep_failed", "error", err)
				continue
			}
			if swept > 0 {
				m.RecordStaleSwept(serviceName, swept)
				slog.Info("stale_documents_failed", "count", swept)
			}
		}
	}
}
