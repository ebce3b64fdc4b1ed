// Package cli exposes media operator commands for estatectl.
package cli

import (
	"context"
	"fmt"
	"time"

	"estate-market/pkg/config"
	"estate-market/pkg/database"
	"estate-market/pkg/logger"
	"estate-market/services/media/internal/repo/persistent"
	"estate-market/services/media/internal/storage"
	"estate-market/services/media/internal/usecase"

	"github.com/spf13/cobra"
)

// Commands returns the media subcommands.
func Commands() []*cobra.Command {
	return []*cobra.Command{newSweepCmd()}
}

func newSweepCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "sweep-uploads",
		Short: "Expire idle upload sessions and remove orphaned chunks",
		Long: `Run one pass of the upload sweeper outside the media service.

Sessions idle for longer than --ttl (default UPLOAD_SESSION_TTL) are
expired and their chunk directories removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.UploadSessionTTL
			}
			log := logger.New()
			defer log.Sync()

			db, err := database.NewPostgresDB(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			mongoClient, mongoDB, err := database.NewMongoDB(cfg)
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				mongoClient.Disconnect(ctx)
			}()

			chunks, err := storage.NewChunkStore(cfg.UploadTempDir)
			if err != nil {
				return err
			}
			media, err := storage.NewMediaStore(cfg.MediaRoot)
			if err != nil {
				return err
			}

			uploads := usecase.NewUploadUseCase(
				persistent.NewSessionRepository(db),
				persistent.NewVideoRepository(mongoDB),
				chunks, media, nil, ttl, log,
			)
			report, err := uploads.SweepExpired(cmd.Context(), time.Now().UTC())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d sessions, removed %d orphaned chunk directories\n", report.Expired, report.Orphans)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Idle time after which a session expires")
	return cmd
}
