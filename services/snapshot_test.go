// ABOUTME: Tests for the offline snapshot importer and its normalization
// ABOUTME: Covers missing files, malformed JSON, filters, and derived fields

package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/VirtualScripter/VMCO/models"
)

func writeSnapshotFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write snapshot file: %v", err)
	}
	return path
}

const sampleSnapshot = `{
	"vcenter": "vc.example.com",
	"vms": [
		{"name": "app-01", "memory_gb": 16, "vcpus": 4, "sockets": 1, "cores_per_socket": 4, "hardware_version": 10, "host": "esx-01"},
		{"name": "db-01", "memory_gb": 400, "vcpus": 12, "sockets": 12, "cores_per_socket": 1, "hardware_version": 10, "host": "esx-01"}
	],
	"hosts": [
		{"name": "esx-01", "memory_gb": 768, "sockets": 2, "cores_per_socket": 10, "threads": 40, "hyperthreading": true, "power_policy": "Balanced", "cluster": "prod"}
	],
	"clusters": [
		{"name": "prod", "drs": "enabled"}
	]
}`

func TestSnapshotImporter_Fetch(t *testing.T) {
	path := writeSnapshotFile(t, sampleSnapshot)

	inv, err := NewSnapshotImporter(path, nil).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(inv.VMs) != 2 {
		t.Fatalf("Expected 2 VMs, got %d", len(inv.VMs))
	}
	if inv.VMs[0].VCenter != "vc.example.com" {
		t.Errorf("Expected the VM to inherit the inventory vCenter, got %q", inv.VMs[0].VCenter)
	}

	if len(inv.Hosts) != 1 {
		t.Fatalf("Expected 1 host, got %d", len(inv.Hosts))
	}
	host := inv.Hosts[0]
	if host.TotalCores != 20 {
		t.Errorf("Expected derived total cores 20, got %d", host.TotalCores)
	}
	if host.VCenter != "vc.example.com" {
		t.Errorf("Expected the host to inherit the inventory vCenter, got %q", host.VCenter)
	}

	if len(inv.Clusters) != 1 {
		t.Fatalf("Expected 1 cluster, got %d", len(inv.Clusters))
	}
	cluster := inv.Clusters[0]
	if cluster.MinMemoryGB != 768 || cluster.MinSockets != 2 || cluster.MinCoresPerSocket != 10 {
		t.Errorf("Expected minimums recomputed from the member host, got %+v", cluster)
	}
}

func TestSnapshotImporter_FetchWithFilters(t *testing.T) {
	path := writeSnapshotFile(t, sampleSnapshot)

	inv, err := NewSnapshotImporter(path, []string{"db-*"}).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(inv.VMs) != 1 || inv.VMs[0].Name != "db-01" {
		t.Fatalf("Expected only db-01, got %+v", inv.VMs)
	}
}

func TestSnapshotImporter_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		filters    []string
		wantReason string
	}{
		{"missing file", filepath.Join(t.TempDir(), "missing.json"), nil, "cannot read file"},
		{"malformed json", writeSnapshotFile(t, "{not json"), nil, "malformed JSON"},
		{"no matching vms", writeSnapshotFile(t, sampleSnapshot), []string{"nothing-*"}, "no virtual machines matched the requested names"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSnapshotImporter(tt.path, tt.filters).Fetch(context.Background())
			var importErr *models.DataImportError
			if !errors.As(err, &importErr) {
				t.Fatalf("Expected a data import error, got %v", err)
			}
			if importErr.Reason != tt.wantReason {
				t.Errorf("Expected reason %q, got %q", tt.wantReason, importErr.Reason)
			}
			if importErr.Path != tt.path {
				t.Errorf("Expected path %q, got %q", tt.path, importErr.Path)
			}
		})
	}
}

func TestNormalizeSnapshot_DerivedVMTopology(t *testing.T) {
	inv := &models.Inventory{
		VCenter: "vc.example.com",
		VMs: []models.VMRecord{
			{Name: "no-cps", VCPUs: 8, Sockets: 2},
			{Name: "no-sockets", VCPUs: 8, CoresPerSocket: 4},
			{Name: "bare", VCPUs: 6},
		},
	}

	normalizeSnapshot(inv)

	if inv.VMs[0].CoresPerSocket != 4 {
		t.Errorf("Expected cores per socket derived as 4, got %d", inv.VMs[0].CoresPerSocket)
	}
	if inv.VMs[1].Sockets != 2 {
		t.Errorf("Expected sockets derived as 2, got %d", inv.VMs[1].Sockets)
	}
	if inv.VMs[2].CoresPerSocket != 1 || inv.VMs[2].Sockets != 6 {
		t.Errorf("Expected a bare VM to default to 6 sockets x 1 core, got %dx%d",
			inv.VMs[2].Sockets, inv.VMs[2].CoresPerSocket)
	}
}

func TestNormalizeSnapshot_KeepsProvidedClusterMinimums(t *testing.T) {
	inv := &models.Inventory{
		VCenter: "vc.example.com",
		Hosts: []models.HostRecord{
			{Name: "esx-01", MemoryGB: 768, Sockets: 2, CoresPerSocket: 10, Cluster: "prod"},
		},
		Clusters: []models.ClusterRecord{
			{Name: "prod", DRS: models.DRSEnabled, MinMemoryGB: 256, MinSockets: 2, MinCoresPerSocket: 8},
		},
	}

	normalizeSnapshot(inv)

	c := inv.Clusters[0]
	if c.MinMemoryGB != 256 || c.MinSockets != 2 || c.MinCoresPerSocket != 8 {
		t.Errorf("Expected provided minimums to be kept, got %+v", c)
	}
}

func TestNormalizeSnapshot_DefaultsUnknownStates(t *testing.T) {
	inv := &models.Inventory{
		Hosts:    []models.HostRecord{{Name: "esx-01", Sockets: 2, CoresPerSocket: 10}},
		Clusters: []models.ClusterRecord{{Name: "prod"}},
	}

	normalizeSnapshot(inv)

	if inv.Hosts[0].PowerPolicy != models.PowerPolicyUnknown {
		t.Errorf("Expected unknown power policy, got %s", inv.Hosts[0].PowerPolicy)
	}
	if inv.Clusters[0].DRS != models.DRSUnknown {
		t.Errorf("Expected unknown DRS mode, got %s", inv.Clusters[0].DRS)
	}
}
