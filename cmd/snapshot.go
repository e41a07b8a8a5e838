// ABOUTME: Snapshot command analyzing an offline inventory export
// ABOUTME: Same pipeline as analyze, fed from a JSON snapshot file

package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/VirtualScripter/VMCO/config"
	"github.com/VirtualScripter/VMCO/logger"
	"github.com/VirtualScripter/VMCO/services"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <file>",
	Short: "Analyze VM topology from an offline inventory snapshot",
	Long: `Read a JSON inventory snapshot (as written by 'vmco analyze
--save-snapshot') and report per-VM CPU topology recommendations without
touching any live endpoint.

Exit codes:
  0 - All analyzed VMs are optimized
  1 - At least one VM needs attention or failed to evaluate
  2 - Error (unreadable snapshot, no VMs found, invalid input)`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger.Init()
		exitCode := runSnapshot(ctx, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(ctx context.Context, path string) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return exitError
	}
	if workers > 0 {
		cfg.Workers = workers
	}

	importer := services.NewSnapshotImporter(path, vmPatterns)
	inv, err := importer.Fetch(ctx)
	if err != nil {
		slog.Error("Snapshot import failed", "error", err)
		return exitError
	}

	return runBatch(ctx, inv, cfg.Workers)
}
