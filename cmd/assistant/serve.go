package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	appService "shutdownassistant/internal/application/service"
	"shutdownassistant/internal/infrastructure/database/sqlite"
	appLogger "shutdownassistant/internal/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the LINE webhook and the daily jobs",
	RunE:  runServe,
}

func init() {
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", "127.0.0.1", "listen host (env HOST)")
	cmd.Flags().Int("port", 8080, "listen port (env PORT)")
}

func gracefulShutdown(apiServer *http.Server, schedulerService appService.SchedulerService, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")

	log.Println("Stopping scheduler...")
	schedulerService.Stop()
	log.Println("Scheduler stopped.")

	log.Println("Closing database connection...")
	if err := sqlite.CloseDB(); err != nil {
		log.Printf("Error closing database: %v", err)
	} else {
		log.Println("Database connection closed.")
	}

	// The server has 5 seconds to finish the request it is currently handling.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")
	done <- true
}

func runServe(cmd *cobra.Command, _ []string) error {
	appLog := appLogger.New()
	appLog.Info("Logger initialized.")

	c, err := buildContainer(cmd)
	if err != nil {
		return err
	}
	settings := c.Settings()

	// --- Elevation ---
	if actions := c.Actions(); !actions.IsElevated() {
		appLog.Info("Not elevated, relaunching with administrator rights...")
		if err := actions.RelaunchElevated(); err != nil {
			appLog.Error("Failed to relaunch elevated", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx := context.Background()
	if err := c.PreferenceService().SyncAutoStart(ctx); err != nil {
		appLog.Error("Failed to read the autostart registration", err)
	}
	if err := c.ShutdownService().RestoreOnStartup(ctx); err != nil {
		// Log the error but continue starting the server
		appLog.Error("Failed to restore the repeating shutdown", err)
	}

	echoRouter, schedulerSvc, err := c.Server()
	if err != nil {
		return err
	}
	if err := schedulerSvc.InitializeSchedules(ctx); err != nil {
		appLog.Error("Failed to initialize schedules on startup", err)
	} else {
		appLog.Info("Background jobs initialized.")
	}
	if settings.APIKey == "" && settings.Host != "127.0.0.1" && settings.Host != "localhost" {
		appLog.Warn(fmt.Sprintf("Listening on %s without API_KEY; remote /api requests will be refused", settings.Host))
	}

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         settings.Addr(),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, schedulerSvc, done)

	appLog.Info(fmt.Sprintf("Server starting on %s", apiServer.Addr))
	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		appLog.Error("HTTP server ListenAndServe error", err)
		return fmt.Errorf("http server error: %w", err)
	}

	<-done
	appLog.Info("Graceful shutdown complete.")
	return nil
}
