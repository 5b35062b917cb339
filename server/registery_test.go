package server

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestNewDeviceRegistry(t *testing.T) {
	registry := NewDeviceRegistry()

	if registry == nil {
		t.Fatal("Expected registry to be created")
	}

	if registry.store == nil {
		t.Error("Expected store map to be initialized")
	}

	if registry.Len() != 0 {
		t.Errorf("Expected empty registry, got %d", registry.Len())
	}
}

func TestDeviceRegistry_Upsert(t *testing.T) {
	registry := NewDeviceRegistry()
	now := time.Now()

	registry.upsert(DeviceRecord{ID: "device-1", Firmware: "v1.0", State: 1, LastSeen: now})

	stored, exists := registry.Get("device-1")
	if !exists {
		t.Fatal("Expected device to be stored")
	}
	if stored.Firmware != "v1.0" || stored.State != 1 || !stored.LastSeen.Equal(now) {
		t.Errorf("Unexpected record %+v", stored)
	}
}

func TestDeviceRegistry_Upsert_Overwrites(t *testing.T) {
	registry := NewDeviceRegistry()

	registry.upsert(DeviceRecord{ID: "device-1", Firmware: "v1.0", State: 1, Addr: "10.0.0.1:4000"})
	registry.upsert(DeviceRecord{ID: "device-1", Firmware: "v2.0", State: 0})

	stored, _ := registry.Get("device-1")
	if stored.Firmware != "v2.0" || stored.State != 0 {
		t.Errorf("Expected overwritten record, got %+v", stored)
	}
	if stored.Addr != "" {
		t.Errorf("Expected fields from the old record to be gone, got addr %q", stored.Addr)
	}

	// Should have only one entry
	if devices := registry.List(); len(devices) != 1 {
		t.Errorf("Expected 1 device after update, got %d", len(devices))
	}
}

func TestDeviceRegistry_UpdateState(t *testing.T) {
	registry := NewDeviceRegistry()
	first := time.Unix(1000, 0)
	later := time.Unix(2000, 0)

	registry.upsert(DeviceRecord{ID: "device-1", Firmware: "v1.0", State: 1, LastSeen: first})

	rec, ok := registry.updateState("device-1", 0, later)
	if !ok {
		t.Fatal("Expected update of registered device to succeed")
	}
	if rec.State != 0 || !rec.LastSeen.Equal(later) || rec.Firmware != "v1.0" {
		t.Errorf("Unexpected record %+v", rec)
	}

	stored, _ := registry.Get("device-1")
	if stored != rec {
		t.Errorf("Expected stored record %+v, got %+v", rec, stored)
	}
}

func TestDeviceRegistry_UpdateState_NotFound(t *testing.T) {
	registry := NewDeviceRegistry()

	if _, ok := registry.updateState("ghost", 1, time.Now()); ok {
		t.Error("Expected update of unknown device to fail")
	}
	if registry.Len() != 0 {
		t.Error("Expected no record to be created")
	}
}

func TestDeviceRegistry_Get_NotFound(t *testing.T) {
	registry := NewDeviceRegistry()

	rec, exists := registry.Get("nonexistent")
	if exists {
		t.Error("Expected device not to exist")
	}

	if rec != (DeviceRecord{}) {
		t.Error("Expected zero record for nonexistent ID")
	}
}

func TestDeviceRegistry_List_Empty(t *testing.T) {
	registry := NewDeviceRegistry()

	devices := registry.List()
	if devices == nil {
		t.Error("Expected empty slice, got nil")
	}

	if len(devices) != 0 {
		t.Errorf("Expected 0 devices, got %d", len(devices))
	}
}

func TestDeviceRegistry_List_ReturnsCopies(t *testing.T) {
	registry := NewDeviceRegistry()
	registry.upsert(DeviceRecord{ID: "device-1", Firmware: "v1.0"})

	list := registry.List()
	list[0].Firmware = "tampered"

	stored, _ := registry.Get("device-1")
	if stored.Firmware != "v1.0" {
		t.Error("List should return copies, not references to internal state")
	}
}

func TestDeviceRegistry_ConcurrentAccess(t *testing.T) {
	registry := NewDeviceRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		id := fmt.Sprintf("device-%d", i%5)
		go func(i int) {
			defer wg.Done()
			registry.upsert(DeviceRecord{ID: id, Firmware: fmt.Sprintf("v%d", i), State: uint8(i % 2)})
		}(i)
		go func() {
			defer wg.Done()
			registry.updateState(id, 1, time.Now())
		}()
		go func() {
			defer wg.Done()
			registry.List()
			registry.Get(id)
		}()
	}
	wg.Wait()

	if registry.Len() != 5 {
		t.Errorf("Expected 5 devices, got %d", registry.Len())
	}
}
