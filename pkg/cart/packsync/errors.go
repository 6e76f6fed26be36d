package packsync

// SyncError reports a manifest that exists but could not be read, parsed or
// written back. Kind is one of the ErrManifest* sentinels in
// pkg/cart/errors. Conditions the synchronizer treats as "nothing to do",
// such as a missing manifest, are not errors.
type SyncError struct {
	Path string
	Kind error
	Err  error
}

func (e *SyncError) Error() string {
	msg := e.Kind.Error() + ": " + e.Path
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SyncError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
