package loader

import (
	"fmt"
	"strings"
)

// LoadError reports why a descriptor could not be located or loaded. Kind is
// one of the descriptor sentinels in pkg/cart/errors; Err is the underlying
// cause when there is one.
type LoadError struct {
	Path string
	Kind error
	Err  error
	// Candidates lists the descriptor files found when Kind is
	// ErrDescriptorAmbiguous.
	Candidates []string
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	b.WriteString(": ")
	b.WriteString(e.Path)
	if len(e.Candidates) > 0 {
		fmt.Fprintf(&b, " %v", e.Candidates)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newLoadError(path string, kind, cause error) *LoadError {
	return &LoadError{Path: path, Kind: kind, Err: cause}
}
