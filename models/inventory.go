// ABOUTME: Normalized inventory records for VMs, hosts, and clusters
// ABOUTME: One schema shared by the live vCenter and offline snapshot importers

package models

// PowerPolicy is the host CPU power management policy.
type PowerPolicy string

const (
	PowerPolicyHighPerformance PowerPolicy = "HighPerformance"
	PowerPolicyBalanced        PowerPolicy = "Balanced"
	PowerPolicyLowPower        PowerPolicy = "LowPower"
	PowerPolicyCustom          PowerPolicy = "Custom"
	PowerPolicyUnknown         PowerPolicy = "unknown"
)

// Known reports whether the policy was actually read from the host.
func (p PowerPolicy) Known() bool {
	return p != "" && p != PowerPolicyUnknown
}

// VMRecord is an immutable snapshot of one virtual machine's compute config.
// Invariant: VCPUs == Sockets * CoresPerSocket.
type VMRecord struct {
	Name            string  `json:"name"`
	VCenter         string  `json:"vcenter"`
	MemoryGB        float64 `json:"memory_gb"`
	VCPUs           int     `json:"vcpus"`
	Sockets         int     `json:"sockets"`
	CoresPerSocket  int     `json:"cores_per_socket"`
	HardwareVersion int     `json:"hardware_version"` // ordinal from "vmx-NN"
	CPUHotAdd       bool    `json:"cpu_hot_add"`
	Host            string  `json:"host"`
	NumaVCPUMin     int     `json:"numa_vcpu_min,omitempty"` // numa.vcpu.min advanced setting, 0 = unset
}

// HostRecord is an immutable snapshot of one ESXi host's hardware and settings.
type HostRecord struct {
	Name           string      `json:"name"`
	VCenter        string      `json:"vcenter"`
	Version        string      `json:"version,omitempty"`
	MemoryGB       float64     `json:"memory_gb"`
	Sockets        int         `json:"sockets"`
	CoresPerSocket int         `json:"cores_per_socket"`
	TotalCores     int         `json:"total_cores"`
	Threads        int         `json:"threads"`
	Hyperthreading bool        `json:"hyperthreading"`
	PowerPolicy    PowerPolicy `json:"power_policy"`
	Cluster        string      `json:"cluster,omitempty"`
	NumaVCPUMin    int         `json:"numa_vcpu_min,omitempty"` // host-wide numa.vcpu.min, 0 = unset
}

// MemoryPerSocketGB approximates one NUMA node's local memory capacity.
func (h *HostRecord) MemoryPerSocketGB() float64 {
	if h.Sockets == 0 {
		return 0
	}
	return h.MemoryGB / float64(h.Sockets)
}

// DRSMode is the cluster's DRS automation state.
type DRSMode string

const (
	DRSEnabled  DRSMode = "enabled"
	DRSDisabled DRSMode = "disabled"
	DRSUnknown  DRSMode = "unknown"
)

// ClusterRecord holds cluster identity plus the minimum hardware spec
// observed across its member hosts at collection time.
type ClusterRecord struct {
	Name              string  `json:"name"`
	VCenter           string  `json:"vcenter"`
	DRS               DRSMode `json:"drs"`
	MinMemoryGB       float64 `json:"min_memory_gb"`
	MinSockets        int     `json:"min_sockets"`
	MinCoresPerSocket int     `json:"min_cores_per_socket"`
}

// MinMemoryPerSocketGB is the conservative per-NUMA-node memory capacity
// derived from the smallest host in the cluster.
func (c *ClusterRecord) MinMemoryPerSocketGB() float64 {
	if c.MinSockets == 0 {
		return 0
	}
	return c.MinMemoryGB / float64(c.MinSockets)
}

// MinTotalCores is the physical core count of the smallest host.
func (c *ClusterRecord) MinTotalCores() int {
	return c.MinSockets * c.MinCoresPerSocket
}

// Inventory is the fully materialized input for one analysis run.
type Inventory struct {
	VCenter  string          `json:"vcenter"`
	VMs      []VMRecord      `json:"vms"`
	Hosts    []HostRecord    `json:"hosts"`
	Clusters []ClusterRecord `json:"clusters"`
}

// FindHost returns the host matching the VM's host reference within the same
// management domain, or nil if no such host exists.
func (inv *Inventory) FindHost(vm *VMRecord) *HostRecord {
	for i := range inv.Hosts {
		h := &inv.Hosts[i]
		if h.Name == vm.Host && h.VCenter == vm.VCenter {
			return h
		}
	}
	return nil
}

// FindCluster returns the named cluster in the same management domain, or nil.
func (inv *Inventory) FindCluster(name, vcenter string) *ClusterRecord {
	for i := range inv.Clusters {
		c := &inv.Clusters[i]
		if c.Name == name && c.VCenter == vcenter {
			return c
		}
	}
	return nil
}
