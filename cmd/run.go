// ABOUTME: Shared batch-run plumbing for the analyze and snapshot commands
// ABOUTME: Wires progress display, evaluation, rendering, and exit codes

package cmd

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/VirtualScripter/VMCO/analyzer"
	"github.com/VirtualScripter/VMCO/internal/tui"
	"github.com/VirtualScripter/VMCO/models"
	"github.com/VirtualScripter/VMCO/report"
)

// Exit codes:
//
//	0 - every analyzed VM is optimized
//	1 - at least one VM needs attention or failed to evaluate
//	2 - fatal error (no inventory, bad arguments, unreachable endpoint)
const (
	exitOK    = 0
	exitFound = 1
	exitError = 2
)

// runBatch evaluates the inventory and renders the report, returning the
// process exit code.
func runBatch(ctx context.Context, inv *models.Inventory, workerCount int) int {
	format, err := report.ParseFormat(outputFormat)
	if err != nil {
		slog.Error("Invalid output format", "error", err)
		return exitError
	}

	progressFn, finish := setupProgress(len(inv.VMs))
	results, err := analyzer.EvaluateBatch(ctx, inv, analyzer.BatchOptions{
		Workers:  workerCount,
		Progress: progressFn,
	})
	finish()
	if err != nil {
		slog.Error("Analysis aborted", "error", err)
		return exitError
	}

	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			slog.Error("Cannot create output file", "path", outputFile, "error", err)
			return exitError
		}
		defer f.Close()
		out = f
	}

	if err := report.Write(out, results, report.Options{Format: format, Full: fullOutput}); err != nil {
		slog.Error("Writing report failed", "error", err)
		return exitError
	}

	exit := exitOK
	for _, r := range results {
		if r.Err != nil {
			slog.Warn("VM evaluation failed", "vm", r.VM, "error", r.Err)
			exit = exitFound
		} else if !r.Recommendation.Optimized {
			exit = exitFound
		}
	}
	return exit
}

// setupProgress returns the per-VM progress callback and a finisher to call
// once the batch completes. Interactive display only when stderr is a
// terminal and progress was not disabled.
func setupProgress(total int) (analyzer.ProgressFunc, func()) {
	if noProgress || !term.IsTerminal(int(os.Stderr.Fd())) {
		fn := func(completed, totalVMs int, vm string) {
			slog.Debug("VM evaluated", "vm", vm, "completed", completed, "total", totalVMs)
		}
		return fn, func() {}
	}

	prog := tui.NewProgressProgram(total, os.Stderr)
	go func() {
		_, _ = prog.Run()
	}()

	fn := func(completed, totalVMs int, vm string) {
		prog.Send(tui.ProgressMsg{Completed: completed, Total: totalVMs, VM: vm})
	}
	finish := func() {
		prog.Send(tui.DoneMsg{})
		prog.Wait()
	}
	return fn, finish
}
