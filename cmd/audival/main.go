package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"audival/adapters/api"
	"audival/adapters/postgres"
	"audival/app"
	"audival/internal/config"
	"audival/internal/logging"
	"audival/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "audival",
		Short: "Hearing-aid validation study analysis pipelines",
	}

	rootCmd.AddCommand(
		newDAMCmd(),
		newREMCmd(),
		newSINCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and wires the logger and optional archive.
func setup() (*config.Config, *logging.Logger, ports.RunArchive, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)

	var archive ports.RunArchive
	if cfg.Database.Enabled() {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to archive: %w", err)
		}
		archive = postgres.NewRunRepository(db)
	} else {
		logger.Warn("No DATABASE_URL set, runs will not be archived")
	}
	return cfg, logger, archive, nil
}

func newDAMCmd() *cobra.Command {
	var dataDir, outDir string

	cmd := &cobra.Command{
		Use:   "dam",
		Short: "Concatenate and clean paired-comparison trial exports",
		Long: `Import every Vesta CSV export from the data folder, derive the
comparison, SNR, track and trial-type columns, drop incomplete datasets
and write the clean trial table.

Example: audival dam --data ./data/dam --out ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, archive, err := setup()
			if err != nil {
				return err
			}
			if dataDir == "" {
				dataDir = cfg.Paths.DAMDir
			}
			if outDir == "" {
				outDir = cfg.Paths.OutDir
			}

			service := app.NewDAMService(archive, logger)
			result, err := service.Run(cmd.Context(), dataDir, outDir)
			if err != nil {
				return err
			}
			logger.Info("DAM run %s complete: kept %d of %d trials",
				result.Run.ID, result.RowsKept, result.RowsIn)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data", "", "Folder of raw trial exports")
	cmd.Flags().StringVar(&outDir, "out", "", "Output folder")
	return cmd
}

func newREMCmd() *cobra.Command {
	var verifitFile, targetsFile, outDir string

	cmd := &cobra.Command{
		Use:   "rem",
		Short: "Score real-ear measurements against prescriptive targets",
		Long: `Pair a Verifit session export against its e-STAT 2.0 targets,
compute signed per-ear deviations, score the study criteria per form
factor and with receiver variants collapsed, and write the deviation
tables.

Example: audival rem --verifit verifit.csv --targets estat.csv --out ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, archive, err := setup()
			if err != nil {
				return err
			}
			if verifitFile == "" {
				verifitFile = cfg.Paths.REMFile
			}
			if targetsFile == "" {
				targetsFile = cfg.Paths.TargetsFile
			}
			if outDir == "" {
				outDir = cfg.Paths.OutDir
			}
			if verifitFile == "" || targetsFile == "" {
				return fmt.Errorf("both --verifit and --targets are required")
			}

			service := app.NewREMService(archive, logger)
			result, err := service.Run(cmd.Context(), verifitFile, targetsFile, outDir, cfg.Analysis.Params)
			if err != nil {
				return err
			}
			logger.Info("REM run %s complete: %d criteria rows",
				result.Run.ID, len(result.Report.Results))
			return nil
		},
	}

	cmd.Flags().StringVar(&verifitFile, "verifit", "", "Verifit session export")
	cmd.Flags().StringVar(&targetsFile, "targets", "", "e-STAT target export")
	cmd.Flags().StringVar(&outDir, "out", "", "Output folder")
	return cmd
}

func newSINCmd() *cobra.Command {
	var scoreFile, outDir string

	cmd := &cobra.Command{
		Use:   "sin",
		Short: "Analyze speech-in-noise word and sentence scores",
		Long: `Split a speech-in-noise score export into word and sentence
tables, run the Friedman omnibus test and pairwise Wilcoxon comparisons
on each, and write both summaries.

Example: audival sin --scores sin.csv --out ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, archive, err := setup()
			if err != nil {
				return err
			}
			if scoreFile == "" {
				scoreFile = cfg.Paths.SINFile
			}
			if outDir == "" {
				outDir = cfg.Paths.OutDir
			}
			if scoreFile == "" {
				return fmt.Errorf("--scores is required")
			}

			service := app.NewSINService(archive, logger)
			result, err := service.Run(cmd.Context(), scoreFile, outDir)
			if err != nil {
				return err
			}
			logger.Info("SIN run %s complete", result.Run.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&scoreFile, "scores", "", "Score table export")
	cmd.Flags().StringVar(&outDir, "out", "", "Output folder")
	return cmd
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the run archive over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, archive, err := setup()
			if err != nil {
				return err
			}
			if archive == nil {
				return fmt.Errorf("serve requires DATABASE_URL")
			}
			if port == "" {
				port = cfg.Server.Port
			}

			server := api.NewServer(archive, logger)
			return server.Start(port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port")
	return cmd
}
