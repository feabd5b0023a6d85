package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Devices implementation for tests.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]string)}
}

func (m *Memory) Device(id string) Store {
	return &memoryDevice{parent: m, device: id}
}

type memoryDevice struct {
	parent *Memory
	device string
}

func (d *memoryDevice) Get(_ context.Context, key string) (string, bool, error) {
	d.parent.mu.RLock()
	defer d.parent.mu.RUnlock()
	v, ok := d.parent.data[d.device][key]
	return v, ok, nil
}

func (d *memoryDevice) Set(_ context.Context, key, value string) error {
	d.parent.mu.Lock()
	defer d.parent.mu.Unlock()
	if d.parent.data[d.device] == nil {
		d.parent.data[d.device] = make(map[string]string)
	}
	d.parent.data[d.device][key] = value
	return nil
}

func (d *memoryDevice) Remove(_ context.Context, key string) error {
	d.parent.mu.Lock()
	defer d.parent.mu.Unlock()
	delete(d.parent.data[d.device], key)
	return nil
}
