// Package device issues and checks the ids that scope a browser's local
// storage.
package device

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidID = errors.New("invalid device id")

// CookieName carries the device id between requests.
const CookieName = "shelfsync_device"

type Service struct {
	newID func() string
}

func New() *Service {
	return &Service{newID: uuid.NewString}
}

// Issue returns a fresh device id.
func (s *Service) Issue() string {
	return s.newID()
}

// Resolve normalizes a presented id, rejecting anything that is not a uuid.
func (s *Service) Resolve(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidID
	}
	return id.String(), nil
}

// ResolveOrIssue keeps a valid presented id and otherwise issues a new one.
// fresh reports whether a new id was issued.
func (s *Service) ResolveOrIssue(raw string) (id string, fresh bool) {
	if id, err := s.Resolve(raw); err == nil {
		return id, false
	}
	return s.Issue(), true
}
