// ABOUTME: Topology resolver joining a VM to its host and cluster records
// ABOUTME: Flags clusters whose member hosts are not hardware-homogeneous

package analyzer

import "github.com/VirtualScripter/VMCO/models"

// Resolution is the joined host/cluster context for one VM evaluation.
type Resolution struct {
	Host    *models.HostRecord
	Cluster *models.ClusterRecord // nil for standalone hosts

	// Inconsistent is set when the host's hardware exceeds the cluster
	// minimums, meaning the VM could land on a smaller host after a
	// rebalance.
	Inconsistent bool
}

// Resolve looks up the VM's current host and, if the host belongs to one,
// its cluster. A VM whose host cannot be found fails with ResolutionError
// and is skipped; the batch continues.
func Resolve(vm *models.VMRecord, inv *models.Inventory) (Resolution, error) {
	host := inv.FindHost(vm)
	if host == nil {
		return Resolution{}, &models.ResolutionError{VM: vm.Name, Host: vm.Host}
	}

	res := Resolution{Host: host}
	if host.Cluster == "" {
		return res, nil
	}

	cluster := inv.FindCluster(host.Cluster, host.VCenter)
	if cluster == nil {
		// Host references a cluster the importer did not capture; size
		// against the host alone.
		return res, nil
	}

	res.Cluster = cluster
	res.Inconsistent = host.MemoryGB != cluster.MinMemoryGB ||
		host.Sockets != cluster.MinSockets ||
		host.CoresPerSocket != cluster.MinCoresPerSocket
	return res, nil
}
