package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several services can
// share one Redis without their entries colliding:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "cm2kit:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) CompileKey(format string, manifest []byte) string {
	return k.prefix + k.inner.CompileKey(format, manifest)
}

func (k *ScopedKeyer) DecodeKey(savestring string) string {
	return k.prefix + k.inner.DecodeKey(savestring)
}
