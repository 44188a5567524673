package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
//
// Example usage:
//
//	// Separate staging from production in a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(scenarioHash string) string {
	return k.prefix + k.inner.LayoutKey(scenarioHash)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(scenarioHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(scenarioHash, opts)
}
