// ABOUTME: Per-VM evaluation pipeline: resolve, classify, optimize, advise
// ABOUTME: A deterministic, side-effect-free function from inventory to Recommendation

package analyzer

import "github.com/VirtualScripter/VMCO/models"

// Evaluate runs the full rightsizing pipeline for one VM against a
// materialized inventory. It is pure: the same inputs always produce the
// same Recommendation, and no state is shared with other evaluations.
func Evaluate(vm *models.VMRecord, inv *models.Inventory) (*models.Recommendation, error) {
	res, err := Resolve(vm, inv)
	if err != nil {
		return nil, err
	}
	host := res.Host

	span := ClassifySpan(vm, host)

	optimalSockets, err := OptimizeSockets(
		vm.Name,
		vm.MemoryGB,
		span.WorkingVCPUs,
		host.MemoryPerSocketGB(),
		host.TotalCores,
		host.CoresPerSocket,
	)
	if err != nil {
		return nil, err
	}

	ctx := &evalContext{
		vm:             vm,
		host:           host,
		cluster:        res.Cluster,
		inconsistent:   res.Inconsistent,
		span:           span,
		optimalSockets: optimalSockets,
	}

	var findings []models.Finding

	// Conservative re-sizing against the smallest host in the cluster.
	if res.Inconsistent {
		sockets, finding, overridden, err := adjustForCluster(vm, res.Cluster, span, optimalSockets)
		if err != nil {
			return nil, err
		}
		if overridden {
			ctx.optimalSockets = sockets
			ctx.overridden = true
			findings = append(findings, finding)
		}
	}

	ctx.optimalCoresPerSocket = float64(span.WorkingVCPUs) / float64(ctx.optimalSockets)

	// A VM demanding more vCPUs than the host has physical cores is capped
	// at the host's actual topology, overriding all prior computation.
	if vm.VCPUs > host.TotalCores {
		ctx.forceCapped = true
		ctx.optimalSockets = host.Sockets
		ctx.optimalCoresPerSocket = float64(host.CoresPerSocket)
	}

	for _, r := range advisoryRules {
		findings = append(findings, r(ctx)...)
	}

	return assemble(ctx, findings), nil
}
