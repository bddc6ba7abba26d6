package staging

// Protection abstracts the platform capabilities the gateway needs around
// a staged document: acquiring scoped read access to the user-selected
// original, and putting paths under the strongest available storage
// protection. Platforms without an equivalent mechanism use NoopProtection.
type Protection interface {
	// AcquireScope obtains read access to the original document and
	// returns a release function that must be called when access is no
	// longer needed.
	AcquireScope(path string) (release func(), err error)

	// Protect marks a path as protected at rest.
	Protect(path string) error
}

// NoopProtection is the Protection used where the OS offers no per-file
// encryption-at-rest toggle. Staged files still rely on the 0700 staging
// directory and secure destruction.
type NoopProtection struct{}

func (NoopProtection) AcquireScope(string) (func(), error) { return func() {}, nil }

func (NoopProtection) Protect(string) error { return nil }
