// ABOUTME: Offline inventory snapshot importer reading a JSON export
// ABOUTME: Produces the same normalized records as the live vCenter importer

package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/VirtualScripter/VMCO/models"
)

// SnapshotImporter reads a previously exported inventory snapshot file.
type SnapshotImporter struct {
	Path    string
	Filters []string
}

// NewSnapshotImporter creates an importer for the given snapshot file.
func NewSnapshotImporter(path string, filters []string) *SnapshotImporter {
	return &SnapshotImporter{Path: path, Filters: filters}
}

// Fetch reads and normalizes the snapshot. A missing or malformed file, or a
// snapshot with no VMs, is a DataImportError and fatal to the run; suspect
// per-VM values are left for the analyzer to report individually.
func (s *SnapshotImporter) Fetch(ctx context.Context) (*models.Inventory, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &models.DataImportError{Path: s.Path, Reason: "cannot read file", Err: err}
	}

	var inv models.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, &models.DataImportError{Path: s.Path, Reason: "malformed JSON", Err: err}
	}

	normalizeSnapshot(&inv)

	inv.VMs = FilterVMs(inv.VMs, s.Filters)
	if len(inv.VMs) == 0 {
		return nil, &models.DataImportError{Path: s.Path, Reason: "no virtual machines matched the requested names"}
	}

	slog.Info("snapshot imported",
		"path", s.Path, "vms", len(inv.VMs), "hosts", len(inv.Hosts), "clusters", len(inv.Clusters))
	return &inv, nil
}

// normalizeSnapshot fills derivable fields a hand-written or older snapshot
// may omit. Invalid host parameters are deliberately not rejected here; they
// surface as per-VM calculation errors so one bad record cannot sink the
// batch.
func normalizeSnapshot(inv *models.Inventory) {
	for i := range inv.VMs {
		vm := &inv.VMs[i]
		if vm.VCenter == "" {
			vm.VCenter = inv.VCenter
		}
		if vm.CoresPerSocket < 1 && vm.Sockets > 0 {
			vm.CoresPerSocket = vm.VCPUs / vm.Sockets
		}
		if vm.CoresPerSocket < 1 {
			vm.CoresPerSocket = 1
		}
		if vm.Sockets < 1 && vm.CoresPerSocket > 0 {
			vm.Sockets = vm.VCPUs / vm.CoresPerSocket
		}
	}

	for i := range inv.Hosts {
		h := &inv.Hosts[i]
		if h.VCenter == "" {
			h.VCenter = inv.VCenter
		}
		if h.TotalCores == 0 {
			h.TotalCores = h.Sockets * h.CoresPerSocket
		}
		if h.CoresPerSocket == 0 && h.Sockets > 0 {
			h.CoresPerSocket = h.TotalCores / h.Sockets
		}
		if h.PowerPolicy == "" {
			h.PowerPolicy = models.PowerPolicyUnknown
		}
	}

	for i := range inv.Clusters {
		c := &inv.Clusters[i]
		if c.VCenter == "" {
			c.VCenter = inv.VCenter
		}
		if c.DRS == "" {
			c.DRS = models.DRSUnknown
		}
	}

	// Recompute missing cluster minimums from member hosts; snapshots that
	// carry their own minimums keep them.
	for i := range inv.Clusters {
		c := &inv.Clusters[i]
		if c.MinSockets == 0 || c.MinCoresPerSocket == 0 || c.MinMemoryGB == 0 {
			single := []models.ClusterRecord{*c}
			computeClusterMinimums(single, inv.Hosts)
			*c = single[0]
		}
	}
}
