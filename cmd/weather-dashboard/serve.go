package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/publish"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API",
		Long:  "Start the HTTP API, the refresh scheduler and the optional MQTT publisher",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			builder := newBuilder(cfg)
			board := dashboard.NewBoard(cfg.BoardMaxAge)

			sinks := []scheduler.Sink{board}
			publisher, err := publish.NewPublisher(publish.PublisherConfig{
				Broker:      cfg.MQTT.Broker,
				ClientID:    cfg.MQTT.ClientID,
				Username:    cfg.MQTT.Username,
				Password:    cfg.MQTT.Password,
				TopicPrefix: cfg.MQTT.TopicPrefix,
				Enabled:     cfg.MQTT.Enabled,
			})
			if err != nil {
				log.Printf("Warning: MQTT connection failed: %v", err)
			} else {
				if cfg.MQTT.Enabled {
					log.Printf("MQTT connected to %s", cfg.MQTT.Broker)
				}
				sinks = append(sinks, publisher)
				defer publisher.Close()
			}

			// Scheduler that periodically rebuilds the watched views.
			sched := scheduler.New(cfg.Watch, cfg.RefreshInterval, builder, sinks...)
			if err := sched.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
			defer sched.Stop()

			app := httpapi.NewApp(httpapi.Options{
				Builder:      builder,
				Board:        board,
				AllowOrigins: cfg.CORSAllowOrigins,
				AccessLog:    true,
			})

			go func() {
				if err := app.Listen(":" + cfg.Port); err != nil {
					log.Printf("fiber server stopped: %v", err)
				}
			}()
			log.Printf("INFO: weather dashboard listening on :%s (provider %s)", cfg.Port, cfg.Provider)

			// Wait for termination signal
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				log.Printf("error during shutdown: %v", err)
			}
			return nil
		},
	}
}
