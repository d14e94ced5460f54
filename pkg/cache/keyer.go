package cache

// Keyer derives cache keys.
type Keyer interface {
	// CompileKey identifies the savestring compiled from a manifest.
	CompileKey(format string, manifest []byte) string
	// DecodeKey identifies the decoded summary of a savestring.
	DecodeKey(savestring string) string
}

// DefaultKeyer hashes its inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) CompileKey(format string, manifest []byte) string {
	return hashKey("compile", format, Hash(manifest))
}

func (DefaultKeyer) DecodeKey(savestring string) string {
	return "decode:" + Hash([]byte(savestring))
}
