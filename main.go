// main.go - Entry point for the LusionBeatz marketplace backend

package main // Declares the package name

import ( // Import required packages
	"context"   // Shutdown deadline
	"errors"    // For http.ErrServerClosed
	"log"       // Fallback logging before zap is up
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Graceful shutdown
	"syscall"   // SIGTERM
	"time"      // Shutdown timeout

	"lusionbeatz-backend/config"   // Project config management
	"lusionbeatz-backend/database" // Database connection and setup
	"lusionbeatz-backend/events"   // Event fan-out
	"lusionbeatz-backend/logging"  // zap logger
	"lusionbeatz-backend/mailer"   // OTP and order mails
	"lusionbeatz-backend/mqtt"     // MQTT event publishing
	"lusionbeatz-backend/realtime" // Admin live feed
	"lusionbeatz-backend/routes"   // HTTP routes

	"github.com/joho/godotenv" // .env loading
	"go.uber.org/zap"          // Structured logging
)

func main() { // Main function, program entry point
	// STEP 1: Load configuration (an optional .env file first)
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}
	cfg := config.Load()

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatal("logger init: ", err)
	}
	defer logger.Sync()

	// STEP 2: Establish connections
	if err := database.Connect(cfg.DBPath); err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close()

	mailer.Use(mailer.FromConfig(cfg))

	hub := realtime.NewHub()
	go hub.Run()
	defer hub.Stop()
	events.Register(hub)

	if cfg.MQTTBroker != "" {
		if err := mqtt.Connect(cfg.MQTTBroker); err != nil {
			// Events still reach the admin feed; downstream consumers miss them
			logger.Error("mqtt unavailable", zap.Error(err))
		} else {
			events.Register(mqtt.Sink{})
			defer mqtt.Disconnect()
		}
	}

	// STEP 3: Start the web server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.Setup(logger, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
