// ABOUTME: Typed error kinds for the analysis pipeline and importers
// ABOUTME: Per-VM errors are recoverable at batch level; import errors are fatal

package models

import "fmt"

// ResolutionError means a VM's host or cluster could not be located in the
// inventory. It aborts that VM's evaluation only.
type ResolutionError struct {
	VM   string
	Host string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving VM %q: host %q not found in inventory", e.VM, e.Host)
}

// CalculationError means invalid or zero-valued host parameters prevented
// socket optimization for one VM.
type CalculationError struct {
	VM     string
	Reason string
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("calculating optimal sockets for VM %q: %s", e.VM, e.Reason)
}

// DataImportError means an offline snapshot could not be read or parsed.
// It is fatal to the whole run.
type DataImportError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("importing snapshot %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("importing snapshot %q: %s", e.Path, e.Reason)
}

func (e *DataImportError) Unwrap() error {
	return e.Err
}
