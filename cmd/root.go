// ABOUTME: Root command for the vmco CLI
// ABOUTME: Handles global output and scope flags shared by all subcommands

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	outputFormat string
	outputFile   string
	fullOutput   bool
	vmPatterns   []string
	workers      int
	noProgress   bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "vmco",
	Short: "Virtual machine compute topology optimizer",
	Long: `vmco analyzes virtual machine CPU topology (sockets x cores per socket)
against the physical NUMA geometry of the hosts the VMs run on, and reports
per-VM recommendations with a severity priority.

It is advisory only: no VM or host configuration is ever changed.

Environment Variables:
  VSPHERE_HOST        vCenter hostname or URL
  VSPHERE_USERNAME    vCenter username
  VSPHERE_PASSWORD    vCenter password (prompted interactively if unset)
  VSPHERE_DATACENTER  Datacenter name (default: the only datacenter)
  VSPHERE_INSECURE    Skip TLS verification (default: false)
  VMCO_ALL_PROXY      SSH jumpbox proxy (ssh+socks5://user@host:port?private-key=...)
  VMCO_WORKERS        Concurrent VM evaluations (default: CPU count)`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "Output format: table, json, or csv")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "out", "o", "", "Write the report to a file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&fullOutput, "full", false, "Full projection with host and cluster context")
	rootCmd.PersistentFlags().StringArrayVar(&vmPatterns, "vm", nil, "VM name or glob pattern to analyze (repeatable; default: all)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Concurrent VM evaluations (overrides VMCO_WORKERS)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable the interactive progress display")
}
