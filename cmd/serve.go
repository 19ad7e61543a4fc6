package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"userapi/internal/app"
	"userapi/internal/config"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}

		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				log.Printf("Error during shutdown: %v", err)
			}
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.Printf("Starting server on %s", cfg.AppPort)
			return a.Fiber.Listen(cfg.AppPort)
		})
		g.Go(func() error {
			<-ctx.Done()
			log.Println("Shutting down server...")
			return a.Fiber.Shutdown()
		})

		if err := g.Wait(); err != nil && err != context.Canceled {
			return err
		}
		log.Println("Server gracefully stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("port", "", "listen address, e.g. :8080 (env APP_PORT)")
	bindFlag("APP_PORT", serveCmd.Flags().Lookup("port"))
}
