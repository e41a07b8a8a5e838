// ABOUTME: Cluster consistency adjuster re-sizing against cluster-minimum hardware
// ABOUTME: The conservative answer wins when the VM could land on a smaller host

package analyzer

import (
	"fmt"

	"github.com/VirtualScripter/VMCO/models"
)

// adjustForCluster re-runs the socket optimizer against the smallest host in
// the cluster. When that answer differs from the host-derived one it overrides
// the recommendation and returns the override finding; severity is HIGH when
// DRS can relocate the VM automatically, MEDIUM otherwise.
//
// Returns the (possibly overridden) socket count, the finding if an override
// happened, and whether it did.
func adjustForCluster(vm *models.VMRecord, cluster *models.ClusterRecord, span Span, hostSockets int) (int, models.Finding, bool, error) {
	clusterSockets, err := OptimizeSockets(
		vm.Name,
		vm.MemoryGB,
		span.WorkingVCPUs,
		cluster.MinMemoryPerSocketGB(),
		cluster.MinTotalCores(),
		cluster.MinCoresPerSocket,
	)
	if err != nil {
		return 0, models.Finding{}, false, err
	}

	if clusterSockets == hostSockets {
		return hostSockets, models.Finding{}, false, nil
	}

	weight := models.WeightMedium
	msg := fmt.Sprintf(
		"Host hardware in cluster %s is not uniform; sized for the smallest host (%d sockets instead of %d) in case the VM is moved",
		cluster.Name, clusterSockets, hostSockets)
	if cluster.DRS == models.DRSEnabled {
		weight = models.WeightHigh
		msg = fmt.Sprintf(
			"Host hardware in cluster %s is not uniform and DRS is enabled; sized for the smallest host (%d sockets instead of %d) since relocation is automatic",
			cluster.Name, clusterSockets, hostSockets)
	}

	return clusterSockets, models.Finding{Weight: weight, Message: msg}, true, nil
}
