// Package storage provides the durable client-side key/value store. Keys are
// scoped per device, mirroring a browser's local storage: one device never
// sees another device's values.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by stores whose backing database has been closed.
var ErrClosed = errors.New("storage closed")

// Store is a string key/value store for a single device.
type Store interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes the key; removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Devices hands out the Store for a device id.
type Devices interface {
	Device(id string) Store
}
