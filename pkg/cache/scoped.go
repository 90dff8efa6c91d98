package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when one backing store serves several deployments or
// tenants that must not share cached repairs.
//
// Example usage:
//
//	// Tenant-specific keys
//	tenantKeyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:abc123:")
//
//	// Shared keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RepairKey generates a prefixed key for a repair result.
func (k *ScopedKeyer) RepairKey(inputHash string, opts RepairKeyOpts) string {
	return k.prefix + k.inner.RepairKey(inputHash, opts)
}
