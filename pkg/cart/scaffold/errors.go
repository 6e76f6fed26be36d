package scaffold

// Error reports a failed project creation. Kind is one of ErrAlreadyExists,
// ErrUnknownTemplate, ErrInvalidOptions or ErrFilesystem from
// pkg/cart/errors. Directories created before a filesystem failure are left
// in place.
type Error struct {
	Root string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error() + ": " + e.Root
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
