package toggle

import "errors"

var (
	// ErrPermissionDenied is returned when a non-authority tries to mutate a
	// replicated value. The value is left untouched.
	ErrPermissionDenied = errors.New("permission denied: caller is not the state authority")

	// ErrMissingDependency is returned when a visual cannot find the state
	// source it should follow. The affected instance stays inert.
	ErrMissingDependency = errors.New("missing dependency: no toggle state source")
)
