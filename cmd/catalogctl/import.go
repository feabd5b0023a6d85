package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shelfsync/internal/config"
	"shelfsync/internal/db"
	"shelfsync/internal/domain"
	"shelfsync/internal/importer"
	"shelfsync/internal/logging"
	accountrepo "shelfsync/internal/repository/account"
	listingrepo "shelfsync/internal/repository/listing"
)

func newImportCmd() *cobra.Command {
	var file, seller string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Upsert a seller's listings from a CSV export",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" || seller == "" {
				return errors.New("--file and --seller are required")
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(cfg.LogLevel, "catalogctl")
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx := cmd.Context()
			pool, err := db.Connect(ctx, cfg.DBConnString, logger)
			if err != nil {
				return fmt.Errorf("connect db: %w", err)
			}
			defer pool.Close()

			acc, err := accountrepo.NewPostgres(pool, logger).GetByEmail(ctx, seller)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("no account for %s", seller)
				}
				return err
			}
			if acc.Role != domain.RoleSeller {
				return fmt.Errorf("%s is a %s account, not a seller", seller, acc.Role)
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			start := time.Now()
			res, err := importer.NewCSVImporter(f, listingrepo.NewPostgres(pool, logger), acc.ID, logger).Run(ctx)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			logger.Info("import finished",
				zap.String("seller", seller),
				zap.Int("imported", res.Imported),
				zap.Int("skipped", res.Skipped),
				zap.Duration("took", time.Since(start).Truncate(time.Millisecond)))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d listings for %s (%d skipped)\n", res.Imported, seller, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to the listings CSV")
	cmd.Flags().StringVar(&seller, "seller", "", "Email of the seller account that owns the listings")
	return cmd
}
