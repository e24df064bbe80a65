package order

// InvalidArgumentError reports a request the service refuses regardless of stored state
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return e.Message
}

// InvalidStateError reports a request that conflicts with the stored state,
// such as an absent order or a transition the current status does not allow.
type InvalidStateError struct {
	Message string
	Err     error
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

func (e *InvalidStateError) Unwrap() error {
	return e.Err
}
