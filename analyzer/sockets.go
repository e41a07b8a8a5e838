// ABOUTME: Socket optimizer computing the minimal socket count for a VM
// ABOUTME: Keeps per-socket memory and core shares within one physical NUMA node

package analyzer

import (
	"fmt"

	"github.com/VirtualScripter/VMCO/models"
)

// OptimizeSockets scans candidate socket counts starting at 1 and returns the
// first count where each socket's share of memory fits one NUMA node (or the
// VM cannot be split further, or it already consumes the whole host) and each
// socket's share of cores fits one NUMA node (or cannot be split further).
// The result never exceeds the number of sockets physically present.
//
// vcpus is the working vCPU count, post odd-count rounding.
func OptimizeSockets(vmName string, memoryGB float64, vcpus int, memPerSocketGB float64, totalCores, coresPerSocket int) (int, error) {
	switch {
	case coresPerSocket <= 0:
		return 0, &models.CalculationError{VM: vmName, Reason: "host cores per socket is zero or missing"}
	case totalCores <= 0:
		return 0, &models.CalculationError{VM: vmName, Reason: "host physical core count is zero or missing"}
	case memPerSocketGB <= 0:
		return 0, &models.CalculationError{VM: vmName, Reason: "host memory per socket is zero or missing"}
	case vcpus <= 0:
		return 0, &models.CalculationError{VM: vmName, Reason: fmt.Sprintf("invalid vCPU count %d", vcpus)}
	case memoryGB <= 0:
		return 0, &models.CalculationError{VM: vmName, Reason: fmt.Sprintf("invalid memory size %.1f GB", memoryGB)}
	}

	physicalSockets := totalCores / coresPerSocket
	if physicalSockets < 1 {
		return 0, &models.CalculationError{
			VM:     vmName,
			Reason: fmt.Sprintf("cores per socket %d exceeds total cores %d", coresPerSocket, totalCores),
		}
	}

	for i := 1; ; i++ {
		if i >= physicalSockets {
			// Can't recommend more sockets than the host has.
			return physicalSockets, nil
		}

		memFits := memoryGB/float64(i) <= memPerSocketGB ||
			vcpus == i ||
			vcpus == totalCores
		coresFit := float64(vcpus)/float64(i) <= float64(coresPerSocket) ||
			vcpus == i

		if memFits && coresFit {
			return i, nil
		}
	}
}
