// ABOUTME: Priority aggregation and final Recommendation assembly
// ABOUTME: Reduces the collected severity weights to one label and a verdict

package analyzer

import "github.com/VirtualScripter/VMCO/models"

// assemble reduces the findings to a priority label and builds the immutable
// Recommendation record. A VM is optimized when nothing worse than an
// informational finding fired.
func assemble(ctx *evalContext, findings []models.Finding) *models.Recommendation {
	priority := models.PriorityForWeight(models.MaxWeight(findings))

	rec := &models.Recommendation{
		VM:              ctx.vm.Name,
		VCenter:         ctx.vm.VCenter,
		MemoryGB:        ctx.vm.MemoryGB,
		VCPUs:           ctx.vm.VCPUs,
		Sockets:         ctx.vm.Sockets,
		CoresPerSocket:  ctx.vm.CoresPerSocket,
		HardwareVersion: ctx.vm.HardwareVersion,
		CPUHotAdd:       ctx.vm.CPUHotAdd,

		HostName:           ctx.host.Name,
		HostVersion:        ctx.host.Version,
		HostMemoryGB:       ctx.host.MemoryGB,
		HostSockets:        ctx.host.Sockets,
		HostCoresPerSocket: ctx.host.CoresPerSocket,
		HostTotalCores:     ctx.host.TotalCores,
		HostThreads:        ctx.host.Threads,
		Hyperthreading:     ctx.host.Hyperthreading,
		PowerPolicy:        ctx.host.PowerPolicy,

		OptimalSockets:        ctx.optimalSockets,
		OptimalCoresPerSocket: ctx.optimalCoresPerSocket,
		Optimized:             models.IsOptimized(priority),
		Priority:              priority,
		Details:               models.DetailText(findings),
		Findings:              findings,
	}

	if ctx.cluster != nil {
		rec.ClusterName = ctx.cluster.Name
		rec.DRS = ctx.cluster.DRS
		rec.ClusterMinMemoryGB = ctx.cluster.MinMemoryGB
		rec.ClusterMinSockets = ctx.cluster.MinSockets
		rec.ClusterMinCoresPerSocket = ctx.cluster.MinCoresPerSocket
	}

	return rec
}
