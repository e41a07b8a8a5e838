// ABOUTME: Output rendering for recommendation batches
// ABOUTME: Compact and full projections as a styled table, JSON, or CSV

package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/VirtualScripter/VMCO/analyzer"
	"github.com/VirtualScripter/VMCO/models"
)

// Format selects the output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatCSV:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json, or csv)", s)
}

// Options controls rendering.
type Options struct {
	Format Format
	Full   bool // full projection instead of compact
}

// failure is one VM whose evaluation errored.
type failure struct {
	VM    string `json:"vm"`
	Error string `json:"error"`
}

// Write renders the batch results. Successful recommendations come first in
// inventory order; per-VM failures follow as warnings attributable to the VM.
func Write(w io.Writer, results []analyzer.Result, opts Options) error {
	recs, failures := split(results)

	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, recs, failures, opts.Full)
	case FormatCSV:
		return writeCSV(w, recs, opts.Full)
	default:
		return writeTable(w, recs, failures, opts.Full)
	}
}

func split(results []analyzer.Result) ([]*models.Recommendation, []failure) {
	var recs []*models.Recommendation
	var failures []failure
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, failure{VM: r.VM, Error: r.Err.Error()})
			continue
		}
		recs = append(recs, r.Recommendation)
	}
	return recs, failures
}

func writeJSON(w io.Writer, recs []*models.Recommendation, failures []failure, full bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if full {
		return enc.Encode(struct {
			Recommendations []*models.Recommendation `json:"recommendations"`
			Failures        []failure                `json:"failures,omitempty"`
		}{recs, failures})
	}

	compact := make([]models.CompactRecommendation, len(recs))
	for i, r := range recs {
		compact[i] = r.Compact()
	}
	return enc.Encode(struct {
		Recommendations []models.CompactRecommendation `json:"recommendations"`
		Failures        []failure                      `json:"failures,omitempty"`
	}{compact, failures})
}

var compactHeader = []string{
	"vm", "sockets", "cores_per_socket", "vcpus", "optimized",
	"optimal_sockets", "optimal_cores_per_socket", "priority", "details",
}

var fullHeaderExtra = []string{
	"vcenter", "cluster", "cluster_min_memory_gb", "cluster_min_sockets",
	"cluster_min_cores_per_socket", "drs", "host", "host_version",
	"host_memory_gb", "host_sockets", "host_cores_per_socket",
	"host_total_cores", "host_threads", "hyperthreading", "power_policy",
	"hardware_version", "cpu_hot_add",
}

func writeCSV(w io.Writer, recs []*models.Recommendation, full bool) error {
	cw := csv.NewWriter(w)

	header := compactHeader
	if full {
		header = append(append([]string{}, compactHeader...), fullHeaderExtra...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range recs {
		row := []string{
			r.VM,
			strconv.Itoa(r.Sockets),
			strconv.Itoa(r.CoresPerSocket),
			strconv.Itoa(r.VCPUs),
			strconv.FormatBool(r.Optimized),
			strconv.Itoa(r.OptimalSockets),
			formatCores(r.OptimalCoresPerSocket),
			r.Priority,
			r.Details,
		}
		if full {
			row = append(row,
				r.VCenter,
				r.ClusterName,
				formatGB(r.ClusterMinMemoryGB),
				strconv.Itoa(r.ClusterMinSockets),
				strconv.Itoa(r.ClusterMinCoresPerSocket),
				string(r.DRS),
				r.HostName,
				r.HostVersion,
				formatGB(r.HostMemoryGB),
				strconv.Itoa(r.HostSockets),
				strconv.Itoa(r.HostCoresPerSocket),
				strconv.Itoa(r.HostTotalCores),
				strconv.Itoa(r.HostThreads),
				strconv.FormatBool(r.Hyperthreading),
				string(r.PowerPolicy),
				strconv.Itoa(r.HardwareVersion),
				strconv.FormatBool(r.CPUHotAdd),
			)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatCores renders cores-per-socket without trailing zeros.
func formatCores(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatGB(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
