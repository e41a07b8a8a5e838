// ABOUTME: Importer contract shared by the live vCenter and snapshot sources
// ABOUTME: Both produce the same normalized Inventory the analyzer consumes

package services

import (
	"context"
	"path"
	"strings"

	"github.com/VirtualScripter/VMCO/models"
)

// Importer materializes a normalized inventory for one analysis run. The
// live vCenter client and the offline snapshot reader are interchangeable
// behind this contract.
type Importer interface {
	Fetch(ctx context.Context) (*models.Inventory, error)
}

// MatchVM reports whether a VM name matches any of the given patterns.
// Patterns use shell-style globbing; a pattern with no metacharacters is an
// exact, case-insensitive match. An empty pattern list matches everything.
func MatchVM(patterns []string, name string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, err := path.Match(strings.ToLower(p), strings.ToLower(name)); err == nil && ok {
			return true
		}
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

// FilterVMs returns the subset of VMs matching the patterns, preserving
// inventory order.
func FilterVMs(vms []models.VMRecord, patterns []string) []models.VMRecord {
	if len(patterns) == 0 {
		return vms
	}
	filtered := make([]models.VMRecord, 0, len(vms))
	for _, vm := range vms {
		if MatchVM(patterns, vm.Name) {
			filtered = append(filtered, vm)
		}
	}
	return filtered
}
