package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several projects or
// threshold experiments can share one cache directory without sharing
// entries:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "alps-2026:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means a DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ResultKey returns the prefixed result key.
func (k *ScopedKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(inputHash, opts)
}

// NetworkKey returns the prefixed network key.
func (k *ScopedKeyer) NetworkKey(inputHash string, opts NetworkKeyOpts) string {
	return k.prefix + k.inner.NetworkKey(inputHash, opts)
}
