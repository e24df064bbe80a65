package domain

import "fmt"

// Status is the position of an order in its lifecycle
type Status string

const (
	StatusCreated    Status = "CREATED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusServed     Status = "SERVED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// Transition names an operation that moves an order between statuses
type Transition string

const (
	TransitionProcess Transition = "process"
	TransitionServe   Transition = "serve"
	TransitionDeliver Transition = "deliver"
	TransitionCancel  Transition = "cancel"
)

var transitions = map[Transition]map[Status]Status{
	TransitionProcess: {
		StatusCreated: StatusInProgress,
	},
	TransitionServe: {
		StatusInProgress: StatusServed,
	},
	TransitionDeliver: {
		StatusServed: StatusDelivered,
	},
	TransitionCancel: {
		StatusCreated:    StatusCancelled,
		StatusInProgress: StatusCancelled,
		StatusServed:     StatusCancelled,
	},
}

// TransitionError reports a transition that is not allowed from the current status
type TransitionError struct {
	From       Status
	Transition Transition
}

// Error implements the error interface
func (e *TransitionError) Error() string {
	return fmt.Sprintf("no se puede aplicar %s a un pedido en estado %s", e.Transition, e.From)
}

// Normalize maps the empty status to StatusCreated.
func (s Status) Normalize() Status {
	if s == "" {
		return StatusCreated
	}
	return s
}

// Valid reports whether s is one of the known statuses. The empty status is valid.
func (s Status) Valid() bool {
	switch s.Normalize() {
	case StatusCreated, StatusInProgress, StatusServed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	s = s.Normalize()
	return s == StatusDelivered || s == StatusCancelled
}

// Next returns the status reached by applying t to s.
func (s Status) Next(t Transition) (Status, error) {
	targets, ok := transitions[t]
	if !ok {
		return "", fmt.Errorf("unknown transition %q", t)
	}

	next, ok := targets[s.Normalize()]
	if !ok {
		return "", &TransitionError{From: s.Normalize(), Transition: t}
	}

	return next, nil
}

// ParseTransition validates a transition name.
func ParseTransition(name string) (Transition, bool) {
	t := Transition(name)
	_, ok := transitions[t]
	return t, ok
}
