package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yungbote/practiceboard-backend/internal/app"
	appdb "github.com/yungbote/practiceboard-backend/internal/data/db"
	"github.com/yungbote/practiceboard-backend/internal/platform/envutil"
	"github.com/yungbote/practiceboard-backend/internal/realtime/bus"
	"github.com/yungbote/practiceboard-backend/internal/services"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "practiceboard",
		Short:        "Calendar and scheduling backend for practitioners",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newWatchCmd(), newTokenCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			a, err := app.New(ctx, log)
			if err != nil {
				log.Error("app init failed", "error", err)
				log.Sync()
				return err
			}
			defer a.Close()
			return a.Run(ctx)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := app.OpenDB(log, envutil.String("DB_DRIVER", "postgres"))
			if err != nil {
				return err
			}
			if err := appdb.AutoMigrateAll(db); err != nil {
				return fmt.Errorf("automigrate: %w", err)
			}
			log.Info("schema migrated")
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print calendar change notifications as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			defer log.Sync()
			if envutil.String("REDIS_ADDR", "") == "" {
				return fmt.Errorf("REDIS_ADDR is required to watch calendar changes")
			}
			b, err := bus.NewFromEnv(log)
			if err != nil {
				return err
			}
			defer b.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			if err := b.StartForwarder(ctx, func(m bus.Message) {
				_ = enc.Encode(m)
			}); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <owner-id>",
		Short: "Sign a bearer token for an owner (local development)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid owner id: %w", err)
			}
			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			auth := services.NewAuthService(log, envutil.String("JWT_SECRET_KEY", ""))
			token, err := auth.IssueToken(ownerID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
