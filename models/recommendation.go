// ABOUTME: Recommendation output record, findings, and priority aggregation
// ABOUTME: Findings carry severity weights that reduce to a single priority label

package models

import "strings"

// Severity weights used by the advisory rules. The priority label for a VM is
// the maximum weight across all of its findings.
const (
	WeightInfo   = 1
	WeightLow    = 2
	WeightMedium = 3
	WeightHigh   = 4
)

// Priority labels, from no findings to most severe.
const (
	PriorityNone   = "N/A"
	PriorityInfo   = "INFO"
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// DetailSeparator joins individual finding messages into the detail text.
const DetailSeparator = " | "

// Finding is one advisory result: a human-readable message plus a severity
// weight. Rules return zero or one Finding each.
type Finding struct {
	Weight  int    `json:"weight"`
	Message string `json:"message"`
}

// PriorityForWeight maps a maximum severity weight to its priority label.
func PriorityForWeight(weight int) string {
	switch {
	case weight >= WeightHigh:
		return PriorityHigh
	case weight == WeightMedium:
		return PriorityMedium
	case weight == WeightLow:
		return PriorityLow
	case weight == WeightInfo:
		return PriorityInfo
	default:
		return PriorityNone
	}
}

// MaxWeight returns the highest weight in the finding list, 0 if none fired.
func MaxWeight(findings []Finding) int {
	max := 0
	for _, f := range findings {
		if f.Weight > max {
			max = f.Weight
		}
	}
	return max
}

// DetailText concatenates finding messages in evaluation order. Findings with
// empty messages contribute weight only (exposure sub-checks fold their text
// into a composite note).
func DetailText(findings []Finding) string {
	parts := make([]string, 0, len(findings))
	for _, f := range findings {
		if f.Message != "" {
			parts = append(parts, f.Message)
		}
	}
	return strings.TrimSuffix(strings.Join(parts, DetailSeparator), DetailSeparator)
}

// IsOptimized reports whether a priority label counts as optimized.
// Informational-only findings do not count as misconfiguration.
func IsOptimized(priority string) bool {
	return priority == PriorityNone || priority == PriorityInfo
}

// Recommendation is the engine's sole output per VM: the original topology,
// the computed optimum, the verdict, and the accumulated findings. It is
// assembled once per evaluation and never mutated afterwards.
type Recommendation struct {
	// VM identity and original topology.
	VM              string  `json:"vm"`
	VCenter         string  `json:"vcenter"`
	MemoryGB        float64 `json:"memory_gb"`
	VCPUs           int     `json:"vcpus"`
	Sockets         int     `json:"sockets"`
	CoresPerSocket  int     `json:"cores_per_socket"`
	HardwareVersion int     `json:"hardware_version"`
	CPUHotAdd       bool    `json:"cpu_hot_add"`

	// Host context.
	HostName           string      `json:"host_name"`
	HostVersion        string      `json:"host_version,omitempty"`
	HostMemoryGB       float64     `json:"host_memory_gb"`
	HostSockets        int         `json:"host_sockets"`
	HostCoresPerSocket int         `json:"host_cores_per_socket"`
	HostTotalCores     int         `json:"host_total_cores"`
	HostThreads        int         `json:"host_threads"`
	Hyperthreading     bool        `json:"hyperthreading"`
	PowerPolicy        PowerPolicy `json:"power_policy"`

	// Cluster context, zero-valued when the host is standalone.
	ClusterName              string  `json:"cluster_name,omitempty"`
	DRS                      DRSMode `json:"drs,omitempty"`
	ClusterMinMemoryGB       float64 `json:"cluster_min_memory_gb,omitempty"`
	ClusterMinSockets        int     `json:"cluster_min_sockets,omitempty"`
	ClusterMinCoresPerSocket int     `json:"cluster_min_cores_per_socket,omitempty"`

	// Computed optimum and verdict.
	OptimalSockets        int       `json:"optimal_sockets"`
	OptimalCoresPerSocket float64   `json:"optimal_cores_per_socket"`
	Optimized             bool      `json:"optimized"`
	Priority              string    `json:"priority"`
	Details               string    `json:"details"`
	Findings              []Finding `json:"findings,omitempty"`
}

// CompactRecommendation is the compact output projection.
type CompactRecommendation struct {
	VM                    string  `json:"vm"`
	Sockets               int     `json:"sockets"`
	CoresPerSocket        int     `json:"cores_per_socket"`
	VCPUs                 int     `json:"vcpus"`
	Optimized             bool    `json:"optimized"`
	OptimalSockets        int     `json:"optimal_sockets"`
	OptimalCoresPerSocket float64 `json:"optimal_cores_per_socket"`
	Priority              string  `json:"priority"`
	Details               string  `json:"details"`
}

// Compact projects the recommendation to its compact form. Every compact
// field equals the corresponding field of the full record.
func (r *Recommendation) Compact() CompactRecommendation {
	return CompactRecommendation{
		VM:                    r.VM,
		Sockets:               r.Sockets,
		CoresPerSocket:        r.CoresPerSocket,
		VCPUs:                 r.VCPUs,
		Optimized:             r.Optimized,
		OptimalSockets:        r.OptimalSockets,
		OptimalCoresPerSocket: r.OptimalCoresPerSocket,
		Priority:              r.Priority,
		Details:               r.Details,
	}
}
