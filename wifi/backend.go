package wifi

import "context"

// WirelessPackage is the configuration package holding radio and interface
// sections.
const WirelessPackage = "wireless"

// InterfaceSectionType is the section type of a wireless network interface.
const InterfaceSectionType = "wifi-iface"

// Section is one named section of a configuration package.
type Section struct {
	Name    string
	Type    string
	Options map[string]string
}

// Option looks up a single option value.
func (s Section) Option(key string) (string, bool) {
	v, ok := s.Options[key]
	return v, ok
}

// ConfigBackend opens sessions on the persisted configuration store.
type ConfigBackend interface {
	// Open acquires a session. The caller owns it exclusively and must Close it.
	Open(ctx context.Context) (ConfigSession, error)
}

// ConfigSession is an open handle on the configuration store.
type ConfigSession interface {
	// Sections reads a package and returns its sections in store order.
	// It returns an error wrapping ErrLookup if the package does not exist.
	Sections(ctx context.Context, pkg string) ([]Section, error)
	// SetOption stages an option change. It is not durable until Commit.
	SetOption(ctx context.Context, pkg, section, key, value string) error
	// Commit persists all staged changes of a package.
	Commit(ctx context.Context, pkg string) error
	// Close releases the session. It is safe to call more than once.
	Close() error
}

// ScanBackend performs a live radio scan.
type ScanBackend interface {
	Scan(ctx context.Context) ([]Network, error)
}

// StatusBackend queries the live operational state of the wireless subsystem.
type StatusBackend interface {
	WirelessUp(ctx context.Context) (bool, error)
}

// Reloader restarts the wireless subsystem so configuration changes take effect.
type Reloader interface {
	Reload(ctx context.Context) error
}
