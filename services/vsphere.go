// ABOUTME: vSphere importer for VM, host, and cluster inventory via govmomi
// ABOUTME: Normalizes vCenter data into the records the analyzer consumes

package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/session"
	"github.com/vmware/govmomi/vim25"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/soap"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/VirtualScripter/VMCO/models"
)

// VSphereCredentials holds vCenter connection info
type VSphereCredentials struct {
	Host       string
	Username   string
	Password   string
	Datacenter string
	Insecure   bool
}

// VSphereImporter collects inventory from a live vCenter endpoint.
type VSphereImporter struct {
	creds   VSphereCredentials
	filters []string
	dial    DialContextFunc

	client *govmomi.Client
	finder *find.Finder
}

// NewVSphereImporter creates an importer; Connect must be called before Fetch.
// filters restricts collection to VMs whose names match the given patterns.
func NewVSphereImporter(creds VSphereCredentials, filters []string, dial DialContextFunc) *VSphereImporter {
	return &VSphereImporter{
		creds:   creds,
		filters: filters,
		dial:    dial,
	}
}

// Connect establishes an authenticated session with vCenter.
func (v *VSphereImporter) Connect(ctx context.Context) error {
	u, err := soap.ParseURL(v.creds.Host)
	if err != nil {
		return fmt.Errorf("invalid vCenter URL '%s': %w", v.creds.Host, err)
	}
	u.User = url.UserPassword(v.creds.Username, v.creds.Password)

	soapClient := soap.NewClient(u, v.creds.Insecure)
	if v.dial != nil {
		if t, ok := soapClient.Transport.(*http.Transport); ok {
			t.DialContext = v.dial
		}
	}

	vimClient, err := vim25.NewClient(ctx, soapClient)
	if err != nil {
		return translateConnectError(v.creds.Host, err)
	}

	client := &govmomi.Client{
		Client:         vimClient,
		SessionManager: session.NewManager(vimClient),
	}
	if err := client.Login(ctx, u.User); err != nil {
		return translateConnectError(v.creds.Host, err)
	}

	v.client = client
	v.finder = find.NewFinder(vimClient, true)

	var dc *object.Datacenter
	if v.creds.Datacenter != "" {
		dc, err = v.finder.Datacenter(ctx, v.creds.Datacenter)
	} else {
		dc, err = v.finder.DefaultDatacenter(ctx)
	}
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("datacenter '%s' not found - verify the datacenter name", v.creds.Datacenter)
		}
		return fmt.Errorf("error accessing datacenter '%s': %w", v.creds.Datacenter, err)
	}
	v.finder.SetDatacenter(dc)

	slog.Info("vSphere connected successfully")
	slog.Debug("vSphere connection details", "host", v.creds.Host, "datacenter", dc.Name())
	return nil
}

// translateConnectError turns common govmomi failures into actionable messages.
func translateConnectError(host string, err error) error {
	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "connection refused"):
		return fmt.Errorf("connection refused to vCenter at %s - verify the host is reachable", host)
	case strings.Contains(errStr, "no such host"):
		return fmt.Errorf("cannot resolve vCenter hostname '%s' - verify DNS", host)
	case strings.Contains(errStr, "401"), strings.Contains(errStr, "Cannot complete login"):
		return fmt.Errorf("authentication failed - verify username and password")
	case strings.Contains(errStr, "context deadline exceeded"), strings.Contains(errStr, "timeout"):
		return fmt.Errorf("connection timeout to vCenter at %s - check network connectivity", host)
	case strings.Contains(errStr, "certificate"), strings.Contains(errStr, "x509"):
		return fmt.Errorf("SSL certificate error connecting to %s - try setting VSPHERE_INSECURE=true", host)
	}
	return fmt.Errorf("failed to connect to vCenter at %s: %w", host, err)
}

// Disconnect closes the vCenter session.
func (v *VSphereImporter) Disconnect(ctx context.Context) error {
	if v.client != nil {
		return v.client.Logout(ctx)
	}
	return nil
}

// Fetch materializes the full normalized inventory for the analysis run.
func (v *VSphereImporter) Fetch(ctx context.Context) (*models.Inventory, error) {
	clusters, hostCluster, err := v.collectClusters(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting clusters: %w", err)
	}

	hosts, hostNames, err := v.collectHosts(ctx, hostCluster)
	if err != nil {
		return nil, fmt.Errorf("collecting hosts: %w", err)
	}

	computeClusterMinimums(clusters, hosts)

	vms, err := v.collectVMs(ctx, hostNames)
	if err != nil {
		return nil, fmt.Errorf("collecting VMs: %w", err)
	}
	if len(vms) == 0 {
		return nil, fmt.Errorf("no virtual machines found matching the requested names")
	}

	slog.Info("vSphere inventory collected",
		"vms", len(vms), "hosts", len(hosts), "clusters", len(clusters))

	return &models.Inventory{
		VCenter:  v.creds.Host,
		VMs:      vms,
		Hosts:    hosts,
		Clusters: clusters,
	}, nil
}

// collectClusters returns cluster records (minimums filled in later) and a
// host-reference to cluster-name membership map.
func (v *VSphereImporter) collectClusters(ctx context.Context) ([]models.ClusterRecord, map[string]string, error) {
	hostCluster := make(map[string]string)

	ccrs, err := v.finder.ClusterComputeResourceList(ctx, "*")
	if err != nil {
		if _, ok := err.(*find.NotFoundError); ok {
			return nil, hostCluster, nil // standalone hosts only
		}
		return nil, nil, fmt.Errorf("listing clusters: %w", err)
	}

	clusters := make([]models.ClusterRecord, 0, len(ccrs))
	for _, ccr := range ccrs {
		var clusterMo mo.ClusterComputeResource
		err := ccr.Properties(ctx, ccr.Reference(), []string{"host", "configurationEx"}, &clusterMo)
		if err != nil {
			return nil, nil, fmt.Errorf("getting cluster %s properties: %w", ccr.Name(), err)
		}

		record := models.ClusterRecord{
			Name:    ccr.Name(),
			VCenter: v.creds.Host,
			DRS:     models.DRSUnknown,
		}
		if cfg, ok := clusterMo.ConfigurationEx.(*types.ClusterConfigInfoEx); ok && cfg.DrsConfig.Enabled != nil {
			if *cfg.DrsConfig.Enabled {
				record.DRS = models.DRSEnabled
			} else {
				record.DRS = models.DRSDisabled
			}
		}

		for _, hostRef := range clusterMo.Host {
			hostCluster[hostRef.Value] = record.Name
		}
		clusters = append(clusters, record)
	}

	return clusters, hostCluster, nil
}

// collectHosts returns host records plus a reference-to-name map for joining
// VMs to their hosts.
func (v *VSphereImporter) collectHosts(ctx context.Context, hostCluster map[string]string) ([]models.HostRecord, map[string]string, error) {
	hostSystems, err := v.finder.HostSystemList(ctx, "*")
	if err != nil {
		return nil, nil, fmt.Errorf("listing hosts: %w", err)
	}

	hosts := make([]models.HostRecord, 0, len(hostSystems))
	hostNames := make(map[string]string, len(hostSystems))

	for _, hs := range hostSystems {
		var hostMo mo.HostSystem
		props := []string{"summary", "config.product", "config.hyperThread", "config.powerSystemInfo", "config.option"}
		if err := hs.Properties(ctx, hs.Reference(), props, &hostMo); err != nil {
			return nil, nil, fmt.Errorf("getting host %s properties: %w", hs.Name(), err)
		}

		record := models.HostRecord{
			Name:        hs.Name(),
			VCenter:     v.creds.Host,
			Cluster:     hostCluster[hs.Reference().Value],
			PowerPolicy: models.PowerPolicyUnknown,
		}

		if hw := hostMo.Summary.Hardware; hw != nil {
			record.MemoryGB = float64(hw.MemorySize) / (1024 * 1024 * 1024)
			record.Sockets = int(hw.NumCpuPkgs)
			record.TotalCores = int(hw.NumCpuCores)
			record.Threads = int(hw.NumCpuThreads)
			if record.Sockets > 0 {
				record.CoresPerSocket = record.TotalCores / record.Sockets
			}
		}

		if cfg := hostMo.Config; cfg != nil {
			if cfg.Product.Version != "" {
				record.Version = cfg.Product.Version
			}
			if cfg.HyperThread != nil {
				record.Hyperthreading = cfg.HyperThread.Active
			}
			if cfg.PowerSystemInfo != nil {
				record.PowerPolicy = mapPowerPolicy(cfg.PowerSystemInfo.CurrentPolicy.ShortName)
			}
			record.NumaVCPUMin = numaVCPUMinOption(cfg.Option)
		}

		hostNames[hs.Reference().Value] = record.Name
		hosts = append(hosts, record)
	}

	return hosts, hostNames, nil
}

// collectVMs gathers VM records for every requested name pattern.
func (v *VSphereImporter) collectVMs(ctx context.Context, hostNames map[string]string) ([]models.VMRecord, error) {
	patterns := v.filters
	if len(patterns) == 0 {
		patterns = []string{"*"}
	}

	seen := make(map[string]bool)
	var vms []models.VMRecord

	for _, pattern := range patterns {
		matches, err := v.finder.VirtualMachineList(ctx, pattern)
		if err != nil {
			if _, ok := err.(*find.NotFoundError); ok {
				slog.Warn("no VMs matched pattern", "pattern", pattern)
				continue
			}
			return nil, fmt.Errorf("listing VMs for pattern %q: %w", pattern, err)
		}

		for _, vmObj := range matches {
			if seen[vmObj.Reference().Value] {
				continue
			}
			seen[vmObj.Reference().Value] = true

			record, ok, err := v.vmRecord(ctx, vmObj, hostNames)
			if err != nil {
				// Skip VMs we can't read; the batch must not die on one VM.
				slog.Warn("skipping unreadable VM", "vm", vmObj.Name(), "error", err)
				continue
			}
			if ok {
				vms = append(vms, record)
			}
		}
	}

	return vms, nil
}

// vmRecord converts one VirtualMachine into a normalized record. Templates
// and VMs without config are skipped.
func (v *VSphereImporter) vmRecord(ctx context.Context, vmObj *object.VirtualMachine, hostNames map[string]string) (models.VMRecord, bool, error) {
	var vmMo mo.VirtualMachine
	err := vmObj.Properties(ctx, vmObj.Reference(), []string{"config", "runtime.host"}, &vmMo)
	if err != nil {
		return models.VMRecord{}, false, err
	}

	cfg := vmMo.Config
	if cfg == nil || cfg.Template {
		return models.VMRecord{}, false, nil
	}

	record := models.VMRecord{
		Name:            vmObj.Name(),
		VCenter:         v.creds.Host,
		MemoryGB:        float64(cfg.Hardware.MemoryMB) / 1024,
		VCPUs:           int(cfg.Hardware.NumCPU),
		CoresPerSocket:  int(cfg.Hardware.NumCoresPerSocket),
		HardwareVersion: parseHardwareVersion(cfg.Version),
		NumaVCPUMin:     numaVCPUMinOption(cfg.ExtraConfig),
	}
	if record.CoresPerSocket < 1 {
		record.CoresPerSocket = 1
	}
	record.Sockets = record.VCPUs / record.CoresPerSocket

	if cfg.CpuHotAddEnabled != nil {
		record.CPUHotAdd = *cfg.CpuHotAddEnabled
	}

	if vmMo.Runtime.Host != nil {
		record.Host = hostNames[vmMo.Runtime.Host.Value]
	}

	return record, true, nil
}

// parseHardwareVersion extracts the ordinal from a "vmx-NN" version string.
func parseHardwareVersion(version string) int {
	v := strings.TrimPrefix(strings.ToLower(version), "vmx-")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// mapPowerPolicy normalizes the ESXi power policy short name.
func mapPowerPolicy(shortName string) models.PowerPolicy {
	switch strings.ToLower(shortName) {
	case "static":
		return models.PowerPolicyHighPerformance
	case "dynamic":
		return models.PowerPolicyBalanced
	case "low":
		return models.PowerPolicyLowPower
	case "custom":
		return models.PowerPolicyCustom
	}
	return models.PowerPolicyUnknown
}

// numaVCPUMinOption scans an option list for a numa.vcpu.min override.
func numaVCPUMinOption(options []types.BaseOptionValue) int {
	for _, bov := range options {
		ov := bov.GetOptionValue()
		if ov == nil || !strings.EqualFold(ov.Key, "numa.vcpu.min") {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(fmt.Sprintf("%v", ov.Value))); err == nil {
			return n
		}
	}
	return 0
}

// computeClusterMinimums fills each cluster's minimum hardware spec from its
// member hosts. Each metric is minimized independently.
func computeClusterMinimums(clusters []models.ClusterRecord, hosts []models.HostRecord) {
	for i := range clusters {
		c := &clusters[i]
		first := true
		for _, h := range hosts {
			if h.Cluster != c.Name {
				continue
			}
			if first {
				c.MinMemoryGB = h.MemoryGB
				c.MinSockets = h.Sockets
				c.MinCoresPerSocket = h.CoresPerSocket
				first = false
				continue
			}
			if h.MemoryGB < c.MinMemoryGB {
				c.MinMemoryGB = h.MemoryGB
			}
			if h.Sockets < c.MinSockets {
				c.MinSockets = h.Sockets
			}
			if h.CoresPerSocket < c.MinCoresPerSocket {
				c.MinCoresPerSocket = h.CoresPerSocket
			}
		}
	}
}
