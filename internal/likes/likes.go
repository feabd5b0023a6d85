// Package likes stores per-book "liked" flags for a device.
package likes

import (
	"context"

	"go.uber.org/zap"

	"shelfsync/internal/storage"
)

// KeyPrefix precedes the isbn in each flag's storage key.
const KeyPrefix = "liked_"

func Key(isbn string) string { return KeyPrefix + isbn }

type Store struct {
	devices storage.Devices
	logger  *zap.Logger
}

func New(devices storage.Devices, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{devices: devices, logger: logger}
}

// IsLiked reports whether the device liked the book. Read failures count as
// not liked.
func (s *Store) IsLiked(ctx context.Context, deviceID, isbn string) bool {
	v, ok, err := s.devices.Device(deviceID).Get(ctx, Key(isbn))
	if err != nil {
		s.logger.Warn("read like", zap.String("device", deviceID), zap.String("isbn", isbn), zap.Error(err))
		return false
	}
	return ok && v == "true"
}

// Set stores the flag. An unliked book has its key removed.
func (s *Store) Set(ctx context.Context, deviceID, isbn string, liked bool) error {
	st := s.devices.Device(deviceID)
	if liked {
		return st.Set(ctx, Key(isbn), "true")
	}
	return st.Remove(ctx, Key(isbn))
}

// Toggle flips the flag and returns the new state.
func (s *Store) Toggle(ctx context.Context, deviceID, isbn string) (bool, error) {
	next := !s.IsLiked(ctx, deviceID, isbn)
	if err := s.Set(ctx, deviceID, isbn, next); err != nil {
		return !next, err
	}
	return next, nil
}
