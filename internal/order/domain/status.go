package domain

import "fmt"

type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusPreparing  Status = "preparing"
	StatusShipped    Status = "shipped"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var lifecycle = []Status{
	StatusPending,
	StatusPaid,
	StatusPreparing,
	StatusShipped,
	StatusDelivering,
	StatusDelivered,
	StatusCompleted,
}

func (s Status) String() string { return string(s) }

func (s Status) Valid() bool {
	return s == StatusCancelled || s.step() >= 0
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) step() int {
	for i, st := range lifecycle {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the status that follows s on the happy path.
func (s Status) Next() (Status, bool) {
	i := s.step()
	if i < 0 || i == len(lifecycle)-1 {
		return "", false
	}
	return lifecycle[i+1], true
}

// CanTransition reports whether an order may move from s to to. Only the next
// step of the lifecycle, or cancellation of a non-terminal order, is allowed.
func (s Status) CanTransition(to Status) bool {
	if s.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	next, ok := s.Next()
	return ok && next == to
}

func (s Status) Transition(to Status) (Status, error) {
	if !s.CanTransition(to) {
		return s, fmt.Errorf("cannot move order from %s to %s", s, to)
	}
	return to, nil
}
