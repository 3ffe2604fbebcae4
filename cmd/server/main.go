package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"theatre-forms/internal/app"
	"theatre-forms/internal/config"
	"theatre-forms/internal/logging"
	"theatre-forms/internal/telemetry"
)

func main() {
	settings := config.Load()
	logger := logging.NewLogger(settings.LogLevel)

	tp, err := telemetry.InitTracing(settings.ServiceName, settings.ServiceVersion, settings.TracingEnabled)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := telemetry.ShutdownTracing(context.Background(), tp); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	application, err := app.Build(&app.Config{
		Settings:       settings,
		Logger:         logger,
		TracerProvider: tp,
	})
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	go func() {
		if err := application.Run(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), settings.ShutdownTimeout)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
