package server

import (
	"sync"
	"time"
)

type DeviceRecord struct {
	ID       string    `json:"id"`
	Firmware string    `json:"firmware"`
	State    uint8     `json:"state"`
	LastSeen time.Time `json:"last_seen"`
	Addr     string    `json:"addr,omitempty"` // sender of the last registration
}

// DeviceRegistry holds the hub's live view of registered devices. Only the
// Dispatcher mutates it; everything else gets copies.
type DeviceRegistry struct {
	mu    sync.RWMutex
	store map[string]DeviceRecord
}

func NewDeviceRegistry() *DeviceRegistry {
	return &DeviceRegistry{store: make(map[string]DeviceRecord)}
}

// upsert replaces any existing record for rec.ID.
func (r *DeviceRegistry) upsert(rec DeviceRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[rec.ID] = rec
}

// updateState changes state and last_seen of a registered device. It reports
// false and leaves the registry untouched if id was never registered.
func (r *DeviceRegistry) updateState(id string, state uint8, seen time.Time) (DeviceRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.store[id]
	if !ok {
		return DeviceRecord{}, false
	}
	rec.State = state
	rec.LastSeen = seen
	r.store[id] = rec
	return rec, true
}

func (r *DeviceRegistry) Get(id string) (DeviceRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	val, ok := r.store[id]
	return val, ok
}

func (r *DeviceRegistry) List() []DeviceRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]DeviceRecord, 0, len(r.store))
	for _, rec := range r.store {
		devices = append(devices, rec)
	}

	return devices
}

func (r *DeviceRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store)
}
