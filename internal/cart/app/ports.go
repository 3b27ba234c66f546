package app

import (
	"time"

	"github.com/google/uuid"
)

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func defaultOptions(s *Service) {
	s.now = func() time.Time { return time.Now().UTC() }
	s.newID = uuid.NewString
}
