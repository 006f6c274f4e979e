// Command ingest loads financial report exports into the database.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"finsight/internal/config"
	"finsight/internal/domain"
	"finsight/internal/ingest"
	"finsight/internal/port"
	"finsight/internal/repository/postgres"
	s3storage "finsight/internal/storage/s3"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ingest",
		Short:         "Load financial report exports into the database",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newFileCmd("columnar", "Ingest columnar profit-and-loss exports", ingest.FormatColumnar),
		newFileCmd("lineitem", "Ingest line-item financial statement exports", ingest.FormatLineItem),
		newFileCmd("auto", "Ingest exports, detecting the format per file", ""),
		newResetCmd(),
		newVerifyCmd(),
	)
	return root
}

func newFileCmd(use, short string, format ingest.Format) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <file>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newIngestService()
			if err != nil {
				return err
			}
			defer cleanup()

			var failed int
			for _, path := range args {
				stats, err := svc.IngestFile(cmd.Context(), path, format)
				if err != nil {
					log.Printf("ingest: %s: %v", path, err)
					failed++
					continue
				}
				fmt.Printf("%s: %d succeeded, %d failed, %d skipped\n",
					path, stats.Succeeded, stats.Failed, stats.Skipped)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all ingested reports, accounts and entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to delete financial data without --yes")
			}
			store, cleanup, err := newStore()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("all financial data deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the deletion")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Print row counts and per-group totals for the ingested data",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := newStore()
			if err != nil {
				return err
			}
			defer cleanup()

			counts, err := store.Counts(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("reports: %d\naccounts: %d\nentries: %d\n",
				counts.Reports, counts.Accounts, counts.Entries)

			for _, group := range domain.CanonicalGroups {
				total, err := store.TotalByGroup(cmd.Context(), group)
				if err != nil {
					return err
				}
				fmt.Printf("%-24s %s\n", group, total.StringFixed(2))
			}
			return nil
		},
	}
}

func newStore() (port.ReportStore, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return postgres.NewReportStore(db), func() { _ = db.Close() }, nil
}

func newIngestService() (*ingest.Service, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var archive port.ArchiveStorage
	if cfg.Archive.Enabled {
		archive, err = s3storage.NewArchive(&cfg.Archive)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to initialize archive storage: %w", err)
		}
	}

	svc := ingest.NewService(postgres.NewReportStore(db), archive)
	return svc, func() { _ = db.Close() }, nil
}
