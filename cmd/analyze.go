// ABOUTME: Analyze command running against a live vCenter endpoint
// ABOUTME: Connects via govmomi, optionally through an SSH jumpbox proxy

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/VirtualScripter/VMCO/config"
	"github.com/VirtualScripter/VMCO/logger"
	"github.com/VirtualScripter/VMCO/models"
	"github.com/VirtualScripter/VMCO/services"
)

var saveSnapshot string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze VM topology against a live vCenter",
	Long: `Connect to vCenter, collect VM, host, and cluster inventory, and report
per-VM CPU topology recommendations.

Exit codes:
  0 - All analyzed VMs are optimized
  1 - At least one VM needs attention or failed to evaluate
  2 - Error (connectivity, no VMs found, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger.Init()
		exitCode := runAnalyze(ctx)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&saveSnapshot, "save-snapshot", "", "Also write the collected inventory to a snapshot file")
}

func runAnalyze(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return exitError
	}
	if workers > 0 {
		cfg.Workers = workers
	}

	if cfg.VSpherePassword == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		if err := promptPassword(cfg); err != nil {
			slog.Error("Password prompt failed", "error", err)
			return exitError
		}
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Incomplete vCenter configuration", "error", err)
		return exitError
	}

	var dial services.DialContextFunc
	if cfg.AllProxy != "" {
		dial, err = services.NewProxyDialContext(cfg.AllProxy)
		if err != nil {
			slog.Error("Invalid jumpbox proxy configuration", "error", err)
			return exitError
		}
		slog.Info("Routing vCenter traffic through jumpbox proxy")
	}

	importer := services.NewVSphereImporter(services.VSphereCredentials{
		Host:       cfg.VSphereHost,
		Username:   cfg.VSphereUsername,
		Password:   cfg.VSpherePassword,
		Datacenter: cfg.VSphereDatacenter,
		Insecure:   cfg.VSphereInsecure,
	}, vmPatterns, dial)

	if err := importer.Connect(ctx); err != nil {
		slog.Error("vCenter connection failed", "error", err)
		return exitError
	}
	defer func() {
		if err := importer.Disconnect(context.Background()); err != nil {
			slog.Debug("vCenter logout failed", "error", err)
		}
	}()

	inv, err := importer.Fetch(ctx)
	if err != nil {
		slog.Error("Inventory collection failed", "error", err)
		return exitError
	}

	if saveSnapshot != "" {
		if err := writeSnapshot(saveSnapshot, inv); err != nil {
			slog.Error("Saving snapshot failed", "error", err)
			return exitError
		}
		slog.Info("Inventory snapshot saved", "path", saveSnapshot)
	}

	return runBatch(ctx, inv, cfg.Workers)
}

// promptPassword asks for the vCenter password interactively.
func promptPassword(cfg *config.Config) error {
	prompt := huh.NewInput().
		Title(fmt.Sprintf("vCenter password for %s@%s", cfg.VSphereUsername, cfg.VSphereHost)).
		EchoMode(huh.EchoModePassword).
		Value(&cfg.VSpherePassword)
	return huh.NewForm(huh.NewGroup(prompt)).Run()
}

// writeSnapshot exports the collected inventory for later offline analysis.
func writeSnapshot(path string, inv *models.Inventory) error {
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}
