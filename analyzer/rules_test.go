// ABOUTME: Unit tests for individual advisory rules
// ABOUTME: Exercises NUMA exposure sub-checks, power policy, and odd vCPU handling

package analyzer

import (
	"strings"
	"testing"

	"github.com/VirtualScripter/VMCO/models"
)

func wideContext(vm models.VMRecord, host models.HostRecord) *evalContext {
	span := ClassifySpan(&vm, &host)
	return &evalContext{
		vm:                    &vm,
		host:                  &host,
		span:                  span,
		optimalSockets:        2,
		optimalCoresPerSocket: float64(span.WorkingVCPUs) / 2,
	}
}

func TestRuleNumaExposure_NotSpanning(t *testing.T) {
	host := referenceHost()
	vm := models.VMRecord{Name: "vm", MemoryGB: 16, VCPUs: 4, Sockets: 1, CoresPerSocket: 4, HardwareVersion: 7, CPUHotAdd: true, Host: "esx-01"}
	ctx := wideContext(vm, host)

	if findings := ruleNumaExposure(ctx); findings != nil {
		t.Errorf("Expected no exposure findings for a non-spanning VM, got %+v", findings)
	}
}

func TestRuleNumaExposure_SubChecks(t *testing.T) {
	tests := []struct {
		name        string
		hwVersion   int
		hotAdd      bool
		vcpus       int
		vmOverride  int
		wantWeights []int
		wantText    string
	}{
		{
			name:      "old hardware version",
			hwVersion: 7, vcpus: 12,
			wantWeights: []int{4},
			wantText:    "hardware version 7",
		},
		{
			name:      "cpu hot add",
			hwVersion: 10, hotAdd: true, vcpus: 12,
			wantWeights: []int{4},
			wantText:    "hot add",
		},
		{
			name:      "no visibility issues",
			hwVersion: 10, vcpus: 12,
			wantWeights: nil,
		},
		{
			name:      "override sufficient",
			hwVersion: 10, vcpus: 12, vmOverride: 8,
			wantWeights: []int{1},
			wantText:    "already exposes",
		},
		{
			name:      "override insufficient",
			hwVersion: 10, vcpus: 12, vmOverride: 16,
			wantWeights: []int{4},
			wantText:    "lower it",
		},
		{
			name:      "all sub-checks fire",
			hwVersion: 7, hotAdd: true, vcpus: 12, vmOverride: 16,
			wantWeights: []int{4, 4, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := referenceHost()
			vm := models.VMRecord{
				Name:            "wide-vm",
				MemoryGB:        40,
				VCPUs:           tt.vcpus,
				Sockets:         tt.vcpus,
				CoresPerSocket:  1,
				HardwareVersion: tt.hwVersion,
				CPUHotAdd:       tt.hotAdd,
				NumaVCPUMin:     tt.vmOverride,
				Host:            "esx-01",
			}
			ctx := wideContext(vm, host)

			findings := ruleNumaExposure(ctx)
			if len(findings) != len(tt.wantWeights) {
				t.Fatalf("Expected %d findings, got %d: %+v", len(tt.wantWeights), len(findings), findings)
			}
			for i, w := range tt.wantWeights {
				if findings[i].Weight != w {
					t.Errorf("Finding %d: expected weight %d, got %d", i, w, findings[i].Weight)
				}
			}
			if len(findings) > 0 {
				if findings[0].Message == "" {
					t.Error("Expected the first finding to carry the composite message")
				}
				if tt.wantText != "" && !strings.Contains(findings[0].Message, tt.wantText) {
					t.Errorf("Expected message containing %q, got %q", tt.wantText, findings[0].Message)
				}
				for i := 1; i < len(findings); i++ {
					if findings[i].Message != "" {
						t.Errorf("Finding %d: expected weight-only finding, got message %q", i, findings[i].Message)
					}
				}
			}
		})
	}
}

func TestRuleNumaExposure_BelowThresholdWithoutOverride(t *testing.T) {
	host := referenceHost()
	// 5 vCPUs at 1 core per socket is CPU-wide on a host with 4-core nodes.
	host.CoresPerSocket = 4
	host.TotalCores = 8
	host.Sockets = 2
	host.MemoryGB = 64
	vm := models.VMRecord{
		Name:            "narrow-wide-vm",
		MemoryGB:        8,
		VCPUs:           5,
		Sockets:         5,
		CoresPerSocket:  1,
		HardwareVersion: 10,
		Host:            "esx-01",
	}
	ctx := wideContext(vm, host)

	findings := ruleNumaExposure(ctx)
	if len(findings) != 1 {
		t.Fatalf("Expected 1 finding, got %d", len(findings))
	}
	if findings[0].Weight != models.WeightHigh {
		t.Errorf("Expected weight %d, got %d", models.WeightHigh, findings[0].Weight)
	}
	if !strings.Contains(findings[0].Message, "numa.vcpu.min = 5") {
		t.Errorf("Expected the message to recommend numa.vcpu.min = 5, got %q", findings[0].Message)
	}
}

func TestEffectiveNumaVCPUMin_VMWinsOverHost(t *testing.T) {
	host := referenceHost()
	host.NumaVCPUMin = 6
	vm := models.VMRecord{Name: "vm", NumaVCPUMin: 4}

	if v, ok := effectiveNumaVCPUMin(&vm, &host); !ok || v != 4 {
		t.Errorf("Expected VM override 4, got %d (present=%v)", v, ok)
	}

	vm.NumaVCPUMin = 0
	if v, ok := effectiveNumaVCPUMin(&vm, &host); !ok || v != 6 {
		t.Errorf("Expected host override 6, got %d (present=%v)", v, ok)
	}

	host.NumaVCPUMin = 0
	if _, ok := effectiveNumaVCPUMin(&vm, &host); ok {
		t.Error("Expected no override present")
	}
}

func TestRulePowerPolicy(t *testing.T) {
	tests := []struct {
		name   string
		vcpus  int
		policy models.PowerPolicy
		fires  bool
	}{
		{"large VM on balanced host", 12, models.PowerPolicyBalanced, true},
		{"large VM on low power host", 12, models.PowerPolicyLowPower, true},
		{"large VM on high performance host", 12, models.PowerPolicyHighPerformance, false},
		{"large VM with unknown policy", 12, models.PowerPolicyUnknown, false},
		{"small VM on balanced host", 8, models.PowerPolicyBalanced, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := referenceHost()
			host.PowerPolicy = tt.policy
			vm := models.VMRecord{Name: "vm", MemoryGB: 40, VCPUs: tt.vcpus, Sockets: 1, CoresPerSocket: tt.vcpus, HardwareVersion: 10, Host: "esx-01"}
			ctx := wideContext(vm, host)

			findings := rulePowerPolicy(ctx)
			if tt.fires && len(findings) != 1 {
				t.Fatalf("Expected the rule to fire, got %+v", findings)
			}
			if !tt.fires && len(findings) != 0 {
				t.Fatalf("Expected the rule not to fire, got %+v", findings)
			}
			if tt.fires && findings[0].Weight != models.WeightMedium {
				t.Errorf("Expected weight %d, got %d", models.WeightMedium, findings[0].Weight)
			}
		})
	}
}

func TestRuleOddVCPU(t *testing.T) {
	host := referenceHost()
	vm := models.VMRecord{Name: "vm", MemoryGB: 40, VCPUs: 13, Sockets: 13, CoresPerSocket: 1, HardwareVersion: 10, Host: "esx-01"}
	ctx := wideContext(vm, host)

	findings := ruleOddVCPU(ctx)
	if len(findings) != 1 {
		t.Fatalf("Expected the odd vCPU rule to fire, got %+v", findings)
	}
	if findings[0].Weight != models.WeightHigh {
		t.Errorf("Expected weight %d, got %d", models.WeightHigh, findings[0].Weight)
	}
	if !strings.Contains(findings[0].Message, "sized for 14 vCPUs") {
		t.Errorf("Expected rounded count in message, got %q", findings[0].Message)
	}
}

func TestRuleUnevenCoresPerSocket(t *testing.T) {
	host := referenceHost()
	vm := models.VMRecord{Name: "vm", MemoryGB: 40, VCPUs: 10, Sockets: 10, CoresPerSocket: 1, HardwareVersion: 10, Host: "esx-01"}
	span := ClassifySpan(&vm, &host)

	ctx := &evalContext{vm: &vm, host: &host, span: span, optimalSockets: 4}
	findings := ruleUnevenCoresPerSocket(ctx)
	if len(findings) != 1 {
		t.Fatalf("Expected the uneven split rule to fire for 10/4, got %+v", findings)
	}
	if findings[0].Weight != models.WeightLow {
		t.Errorf("Expected weight %d, got %d", models.WeightLow, findings[0].Weight)
	}

	ctx.optimalSockets = 2
	if findings := ruleUnevenCoresPerSocket(ctx); len(findings) != 0 {
		t.Errorf("Expected no finding for an even split, got %+v", findings)
	}

	ctx.optimalSockets = 4
	ctx.forceCapped = true
	if findings := ruleUnevenCoresPerSocket(ctx); len(findings) != 0 {
		t.Errorf("Expected no finding when force-capped, got %+v", findings)
	}
}

func TestSpanResource(t *testing.T) {
	tests := []struct {
		span Span
		want string
	}{
		{Span{MemWide: true}, "memory"},
		{Span{CPUWide: true}, "CPU"},
		{Span{MemWide: true, CPUWide: true}, "memory and CPU"},
	}
	for _, tt := range tests {
		if got := spanResource(tt.span); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

func TestFormatCores(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{6, "6"},
		{2.5, "2.5"},
		{1, "1"},
	}
	for _, tt := range tests {
		if got := formatCores(tt.value); got != tt.want {
			t.Errorf("Expected %q for %v, got %q", tt.want, tt.value, got)
		}
	}
}
