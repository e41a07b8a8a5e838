// ABOUTME: Tests for the batch evaluator's isolation, ordering, and progress
// ABOUTME: Covers per-VM failures, cancellation, and worker-count edge cases

package analyzer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/VirtualScripter/VMCO/models"
)

func batchInventory() *models.Inventory {
	host := referenceHost()
	return &models.Inventory{
		VMs: []models.VMRecord{
			{Name: "vm-a", VCenter: host.VCenter, MemoryGB: 16, VCPUs: 4, Sockets: 1, CoresPerSocket: 4, HardwareVersion: 10, Host: host.Name},
			{Name: "vm-orphan", VCenter: host.VCenter, MemoryGB: 16, VCPUs: 4, Sockets: 1, CoresPerSocket: 4, HardwareVersion: 10, Host: "esx-gone"},
			{Name: "vm-b", VCenter: host.VCenter, MemoryGB: 40, VCPUs: 12, Sockets: 12, CoresPerSocket: 1, HardwareVersion: 10, Host: host.Name},
		},
		Hosts: []models.HostRecord{host},
	}
}

func TestEvaluateBatch_PerVMIsolation(t *testing.T) {
	inv := batchInventory()

	results, err := EvaluateBatch(context.Background(), inv, BatchOptions{Workers: 2})
	if err != nil {
		t.Fatalf("Expected no batch error, got %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	for i, want := range []string{"vm-a", "vm-orphan", "vm-b"} {
		if results[i].VM != want {
			t.Errorf("Result %d: expected VM %s, got %s", i, want, results[i].VM)
		}
	}

	if results[0].Err != nil || results[0].Recommendation == nil {
		t.Errorf("Expected vm-a to succeed, got err=%v", results[0].Err)
	}
	if results[2].Err != nil || results[2].Recommendation == nil {
		t.Errorf("Expected vm-b to succeed, got err=%v", results[2].Err)
	}

	var resErr *models.ResolutionError
	if !errors.As(results[1].Err, &resErr) {
		t.Fatalf("Expected a resolution error for vm-orphan, got %v", results[1].Err)
	}
	if resErr.Host != "esx-gone" {
		t.Errorf("Expected the error to name host esx-gone, got %s", resErr.Host)
	}
	if results[1].Recommendation != nil {
		t.Error("Expected no recommendation for the failed VM")
	}
}

func TestEvaluateBatch_ProgressCallback(t *testing.T) {
	inv := batchInventory()

	var (
		mu    sync.Mutex
		calls []int
		seen  = map[string]bool{}
	)
	opts := BatchOptions{
		Workers: 3,
		Progress: func(completed, total int, vm string) {
			mu.Lock()
			defer mu.Unlock()
			if total != 3 {
				t.Errorf("Expected total 3, got %d", total)
			}
			calls = append(calls, completed)
			seen[vm] = true
		},
	}

	if _, err := EvaluateBatch(context.Background(), inv, opts); err != nil {
		t.Fatalf("Expected no batch error, got %v", err)
	}

	if len(calls) != 3 {
		t.Fatalf("Expected 3 progress calls, got %d", len(calls))
	}
	for i, c := range calls {
		if c != i+1 {
			t.Errorf("Call %d: expected completed count %d, got %d", i, i+1, c)
		}
	}
	for _, vm := range []string{"vm-a", "vm-orphan", "vm-b"} {
		if !seen[vm] {
			t.Errorf("Expected a progress call for %s", vm)
		}
	}
}

func TestEvaluateBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EvaluateBatch(ctx, batchInventory(), BatchOptions{Workers: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestEvaluateBatch_SerialFallback(t *testing.T) {
	results, err := EvaluateBatch(context.Background(), batchInventory(), BatchOptions{Workers: 0})
	if err != nil {
		t.Fatalf("Expected no batch error, got %v", err)
	}
	if len(results) != 3 {
		t.Errorf("Expected 3 results, got %d", len(results))
	}
}

func TestEvaluateBatch_EmptyInventory(t *testing.T) {
	results, err := EvaluateBatch(context.Background(), &models.Inventory{}, BatchOptions{Workers: 4})
	if err != nil {
		t.Fatalf("Expected no batch error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}
