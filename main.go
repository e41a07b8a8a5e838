// ABOUTME: Entry point for the vmco CLI
// ABOUTME: Advises on optimal VM CPU topology for the host NUMA geometry

package main

import (
	"fmt"
	"os"

	"github.com/VirtualScripter/VMCO/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
