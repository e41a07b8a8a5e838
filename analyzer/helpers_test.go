// ABOUTME: Shared inventory builders for analyzer tests
// ABOUTME: Mirrors the reference host/VM shapes used across scenarios

package analyzer

import "github.com/VirtualScripter/VMCO/models"

// referenceHost is a 2x10 host with 768 GB and hyperthreading, standalone.
func referenceHost() models.HostRecord {
	return models.HostRecord{
		Name:           "esx-01",
		VCenter:        "vc.example.com",
		Version:        "8.0.2",
		MemoryGB:       768,
		Sockets:        2,
		CoresPerSocket: 10,
		TotalCores:     20,
		Threads:        40,
		Hyperthreading: true,
		PowerPolicy:    models.PowerPolicyBalanced,
	}
}

func referenceVM() models.VMRecord {
	return models.VMRecord{
		Name:            "app-vm",
		VCenter:         "vc.example.com",
		MemoryGB:        40,
		VCPUs:           12,
		Sockets:         12,
		CoresPerSocket:  1,
		HardwareVersion: 10,
		Host:            "esx-01",
	}
}

func singleHostInventory(vm models.VMRecord, host models.HostRecord, clusters ...models.ClusterRecord) *models.Inventory {
	return &models.Inventory{
		VCenter:  "vc.example.com",
		VMs:      []models.VMRecord{vm},
		Hosts:    []models.HostRecord{host},
		Clusters: clusters,
	}
}
