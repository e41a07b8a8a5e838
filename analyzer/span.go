// ABOUTME: Span classifier for NUMA-node memory and vCPU footprint
// ABOUTME: Rounds odd vCPU counts up so wide VMs can split evenly across nodes

package analyzer

import "github.com/VirtualScripter/VMCO/models"

// Span describes whether a VM's demand exceeds one NUMA node on its host.
type Span struct {
	MemWide bool // memory demand exceeds one node's local memory
	CPUWide bool // vCPU demand exceeds one node's core count
	OddVCPU bool // vCPU count was odd and the VM is wide

	// WorkingVCPUs is the vCPU count used for sizing: the VM's own count,
	// plus one when a wide VM has an odd count.
	WorkingVCPUs int
}

// Wide reports whether the VM spans NUMA nodes on either resource.
func (s Span) Wide() bool {
	return s.MemWide || s.CPUWide
}

// ClassifySpan is a pure function of the VM and its current host.
func ClassifySpan(vm *models.VMRecord, host *models.HostRecord) Span {
	span := Span{
		MemWide:      vm.MemoryGB > host.MemoryPerSocketGB(),
		CPUWide:      vm.VCPUs > host.CoresPerSocket,
		WorkingVCPUs: vm.VCPUs,
	}

	if span.Wide() && vm.VCPUs%2 != 0 {
		span.OddVCPU = true
		span.WorkingVCPUs = vm.VCPUs + 1
	}

	return span
}
