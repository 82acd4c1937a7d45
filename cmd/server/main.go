package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"ward-rounds/internal/config"
	"ward-rounds/internal/database"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rounds",
		Short: "ICU rounding checklist API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(sweepCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the task sweep worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				cfg.Server.Port = port
			}
			if noSweep, _ := cmd.Flags().GetBool("no-sweep"); noSweep {
				cfg.Worker.SweepEnabled = false
			}
			memoryRounds, _ := cmd.Flags().GetBool("memory-rounds")
			return runServer(cfg, memoryRounds)
		},
	}
	cmd.Flags().String("port", "", "listen port (overrides PORT)")
	cmd.Flags().Bool("no-sweep", false, "disable the periodic task status sweep")
	cmd.Flags().Bool("memory-rounds", false, "keep daily checklist completions in process memory")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			a, err := newApp(cfg, false)
			if err != nil {
				return err
			}
			defer a.close()
			a.logger.Info().Str("driver", cfg.Database.Driver).Msg("schema is up to date")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demonstration ward into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if path, _ := cmd.Flags().GetString("fixtures"); path != "" {
				cfg.Ward.FixturesPath = path
			}
			if err := requirePersistentStore(cfg, "seed"); err != nil {
				return err
			}
			a, err := newApp(cfg, false)
			if err != nil {
				return err
			}
			defer a.close()

			seeded, err := a.seeder.SeedIfEmpty(cmd.Context())
			if err != nil {
				return err
			}
			if !seeded {
				a.logger.Info().Msg("database already has patients, nothing seeded")
			}
			return nil
		},
	}
	cmd.Flags().String("fixtures", "", "YAML fixtures file (overrides FIXTURES_PATH)")
	return cmd
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Re-evaluate every open task once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if err := requirePersistentStore(cfg, "sweep"); err != nil {
				return err
			}
			a, err := newApp(cfg, false)
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.worker.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "evaluated=%d updated=%d failed=%d overdue=%d\n",
				result.Evaluated, result.Updated, result.Failed, len(result.NewlyOverdue))
			return nil
		},
	}
}

// requirePersistentStore stops one-shot commands that would act on a database discarded at exit
func requirePersistentStore(cfg *config.Config, command string) error {
	if database.IsMemorySQLite(cfg.Database) {
		return fmt.Errorf("%s needs a persistent database: DB_DSN=%q is in-memory and is discarded when the command exits; set DB_DSN to a file or use DB_DRIVER=mysql", command, cfg.Database.DSN)
	}
	return nil
}

func runServer(cfg *config.Config, memoryRounds bool) error {
	a, err := newApp(cfg, memoryRounds)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := a.seeder.SeedIfEmpty(ctx); err != nil {
		return err
	}

	if cfg.Worker.SweepEnabled {
		go func() {
			if err := a.worker.Start(ctx); err != nil {
				a.logger.Error().Err(err).Msg("task sweep worker stopped")
			}
		}()
	}

	gin.SetMode(cfg.Server.GinMode)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}
	a.logger.Info().Msg("shutting down server")

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.logger.Info().Msg("server exited")
	return nil
}
