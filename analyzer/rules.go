// ABOUTME: Advisory rules evaluated in fixed order against one VM's context
// ABOUTME: Each rule is independent and returns zero or more weighted findings

package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/VirtualScripter/VMCO/models"
)

const (
	// numaMinHardwareVersion is the first virtual hardware version that can
	// present NUMA topology to the guest.
	numaMinHardwareVersion = 8

	// defaultNumaVCPUMin is the vCPU count below which ESXi does not expose
	// vNUMA unless numa.vcpu.min lowers the threshold.
	defaultNumaVCPUMin = 9

	// powerPolicyVCPUThreshold: larger VMs are sensitive to host power
	// management latency.
	powerPolicyVCPUThreshold = 8
)

// evalContext carries everything the advisory rules need for one VM. It is
// owned exclusively by that VM's evaluation.
type evalContext struct {
	vm      *models.VMRecord
	host    *models.HostRecord
	cluster *models.ClusterRecord

	inconsistent bool // cluster hardware not uniform
	overridden   bool // cluster adjuster replaced the host-derived answer
	forceCapped  bool // vCPU demand exceeds the host's physical cores

	span Span

	optimalSockets        int
	optimalCoresPerSocket float64
}

// notOptimal reports whether the VM's configured topology differs from the
// computed optimum.
func (c *evalContext) notOptimal() bool {
	return c.vm.Sockets != c.optimalSockets ||
		float64(c.vm.CoresPerSocket) != c.optimalCoresPerSocket
}

// rule inspects the context and contributes zero or more findings.
type rule func(*evalContext) []models.Finding

// advisoryRules is the fixed evaluation order. Rules are not mutually
// exclusive; every firing rule appends its findings.
var advisoryRules = []rule{
	ruleClusterInconsistent,
	ruleAlignTopology,
	ruleNumaSpan,
	ruleNumaExposure,
	ruleOddVCPU,
	ruleExceedsHostCores,
	rulePowerPolicy,
	ruleUnevenCoresPerSocket,
}

// ruleClusterInconsistent notes non-uniform cluster hardware when the
// conservative re-sizing did not change the answer.
func ruleClusterInconsistent(c *evalContext) []models.Finding {
	if !c.inconsistent || c.overridden {
		return nil
	}
	return []models.Finding{{
		Weight: models.WeightInfo,
		Message: fmt.Sprintf("Host hardware in cluster %s is not uniform; recommendation is based on the current host",
			c.cluster.Name),
	}}
}

// ruleAlignTopology suggests alignment for VMs that fit a single NUMA node
// but are not configured at the computed optimum. Not urgent.
func ruleAlignTopology(c *evalContext) []models.Finding {
	if c.span.Wide() || !c.notOptimal() {
		return nil
	}
	return []models.Finding{{
		Weight: models.WeightLow,
		Message: fmt.Sprintf("VM fits in a single NUMA node; align topology from %d sockets x %d cores to %d sockets x %s cores",
			c.vm.Sockets, c.vm.CoresPerSocket, c.optimalSockets, formatCores(c.optimalCoresPerSocket)),
	}}
}

// ruleNumaSpan is the core finding: the VM spans NUMA nodes and its topology
// does not distribute the load evenly.
func ruleNumaSpan(c *evalContext) []models.Finding {
	if !c.span.Wide() || !c.notOptimal() {
		return nil
	}
	return []models.Finding{{
		Weight: models.WeightHigh,
		Message: fmt.Sprintf("VM %s spans NUMA nodes; distribute vCPUs evenly across %d sockets of %s cores",
			spanResource(c.span), c.optimalSockets, formatCores(c.optimalCoresPerSocket)),
	}}
}

// ruleNumaExposure evaluates the guest-visibility sub-checks for spanning
// VMs. Their messages form one composite note; each sub-check still
// contributes its own severity weight.
func ruleNumaExposure(c *evalContext) []models.Finding {
	if !c.span.Wide() {
		return nil
	}

	type subCheck struct {
		weight  int
		message string
	}
	var checks []subCheck

	if c.vm.HardwareVersion < numaMinHardwareVersion {
		checks = append(checks, subCheck{models.WeightHigh,
			fmt.Sprintf("hardware version %d cannot present NUMA topology to the guest (needs version %d or later)",
				c.vm.HardwareVersion, numaMinHardwareVersion)})
	}

	if c.vm.CPUHotAdd {
		checks = append(checks, subCheck{models.WeightHigh,
			"CPU hot add is enabled, which hides NUMA topology from the guest"})
	}

	override, present := effectiveNumaVCPUMin(c.vm, c.host)
	switch {
	case !present && c.vm.VCPUs < defaultNumaVCPUMin:
		checks = append(checks, subCheck{models.WeightHigh,
			fmt.Sprintf("%d vCPUs is below the vNUMA threshold of %d; set numa.vcpu.min = %d to expose NUMA to the guest",
				c.vm.VCPUs, defaultNumaVCPUMin, c.vm.VCPUs)})
	case present && override <= c.vm.VCPUs:
		checks = append(checks, subCheck{models.WeightInfo,
			fmt.Sprintf("numa.vcpu.min = %d already exposes NUMA to the guest", override)})
	case present && override > c.vm.VCPUs:
		checks = append(checks, subCheck{models.WeightHigh,
			fmt.Sprintf("numa.vcpu.min = %d exceeds the VM's %d vCPUs; lower it to expose NUMA to the guest",
				override, c.vm.VCPUs)})
	}

	if len(checks) == 0 {
		return nil
	}

	// One composite detail entry; weight-only findings for the rest.
	messages := make([]string, len(checks))
	for i, s := range checks {
		messages[i] = s.message
	}
	findings := make([]models.Finding, len(checks))
	findings[0] = models.Finding{
		Weight:  checks[0].weight,
		Message: "Guest NUMA visibility: " + strings.Join(messages, "; "),
	}
	for i := 1; i < len(checks); i++ {
		findings[i] = models.Finding{Weight: checks[i].weight}
	}
	return findings
}

// ruleOddVCPU flags spanning VMs whose odd vCPU count cannot split evenly.
func ruleOddVCPU(c *evalContext) []models.Finding {
	if !c.span.OddVCPU {
		return nil
	}
	return []models.Finding{{
		Weight: models.WeightHigh,
		Message: fmt.Sprintf("Odd vCPU count %d cannot be distributed evenly across NUMA nodes; sized for %d vCPUs",
			c.vm.VCPUs, c.span.WorkingVCPUs),
	}}
}

// ruleExceedsHostCores fires when vCPU demand exceeds the host's physical
// cores; the recommendation is force-capped to the host's actual topology.
func ruleExceedsHostCores(c *evalContext) []models.Finding {
	if !c.forceCapped {
		return nil
	}
	return []models.Finding{{
		Weight: models.WeightHigh,
		Message: fmt.Sprintf("%d vCPUs exceed the host's %d physical cores; capped at the host's %d sockets x %d cores",
			c.vm.VCPUs, c.host.TotalCores, c.host.Sockets, c.host.CoresPerSocket),
	}}
}

// rulePowerPolicy suggests High Performance for large VMs on hosts with a
// known, lesser power policy.
func rulePowerPolicy(c *evalContext) []models.Finding {
	if c.vm.VCPUs <= powerPolicyVCPUThreshold {
		return nil
	}
	if !c.host.PowerPolicy.Known() || c.host.PowerPolicy == models.PowerPolicyHighPerformance {
		return nil
	}
	return []models.Finding{{
		Weight: models.WeightMedium,
		Message: fmt.Sprintf("Host power policy is %s; use High Performance for VMs with more than %d vCPUs",
			c.host.PowerPolicy, powerPolicyVCPUThreshold),
	}}
}

// ruleUnevenCoresPerSocket reports a working vCPU count that the recommended
// socket count does not divide evenly. A real topology needs an integral
// cores-per-socket, so this surfaces instead of being silently rounded.
func ruleUnevenCoresPerSocket(c *evalContext) []models.Finding {
	if c.forceCapped || c.optimalSockets == 0 || c.span.WorkingVCPUs%c.optimalSockets == 0 {
		return nil
	}
	return []models.Finding{{
		Weight: models.WeightLow,
		Message: fmt.Sprintf("%d vCPUs do not divide evenly across %d sockets; adjust the vCPU count for an integral cores per socket",
			c.span.WorkingVCPUs, c.optimalSockets),
	}}
}

// effectiveNumaVCPUMin resolves the numa.vcpu.min override; the VM-level
// setting wins over the host-level one.
func effectiveNumaVCPUMin(vm *models.VMRecord, host *models.HostRecord) (int, bool) {
	if vm.NumaVCPUMin > 0 {
		return vm.NumaVCPUMin, true
	}
	if host.NumaVCPUMin > 0 {
		return host.NumaVCPUMin, true
	}
	return 0, false
}

// spanResource names which resource pushes the VM across nodes.
func spanResource(span Span) string {
	switch {
	case span.MemWide && span.CPUWide:
		return "memory and CPU"
	case span.MemWide:
		return "memory"
	default:
		return "CPU"
	}
}

// formatCores renders a cores-per-socket value without trailing zeros.
func formatCores(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
