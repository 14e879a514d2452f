package cache

// ScopedKeyer wraps a Keyer with a prefix so that separate deployments
// or tenants sharing one backend (typically Redis) get isolated key
// namespaces.
//
// Example usage:
//
//	// Per-instance keys on a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "nbmap:prod:")
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

// CollectionKey generates a prefixed key for a parsed collection.
func (k *ScopedKeyer) CollectionKey(contentHash string) string {
	return k.prefix + k.inner.CollectionKey(contentHash)
}

// RelationKey generates a prefixed key for a neighbour relation.
func (k *ScopedKeyer) RelationKey(contentHash string, opts RelationKeyOpts) string {
	return k.prefix + k.inner.RelationKey(contentHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(contentHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(contentHash, opts)
}
