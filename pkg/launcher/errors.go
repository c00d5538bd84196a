package launcher

import "errors"

var (
	// ErrNameInUse is returned by Add when a unit with the given name
	// already exists in the database.
	ErrNameInUse = errors.New("launcher: name already in use")

	// ErrMissingDescriptorData is returned by Add when a required
	// field (currently only ExecStart) is absent from the Descriptor.
	ErrMissingDescriptorData = errors.New("launcher: descriptor is missing required data")

	// ErrCapabilityNotSet is returned by a Start handle for a
	// Capability unit whose capability event stream ended, or was
	// exhausted, without the expected SET event appearing.
	ErrCapabilityNotSet = errors.New("launcher: capability was not set by unit")

	// ErrRunning is returned by RemoveNowait when the named unit is
	// currently running; callers must stop it first.
	ErrRunning = errors.New("launcher: cannot remove a running unit")
)
