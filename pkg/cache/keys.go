package cache

// ResultKeyOpts are the run parameters that select a generalized result.
type ResultKeyOpts struct {
	Class      string   `json:"class"`
	Scale      float64  `json:"scale"`
	Thresholds any      `json:"thresholds"`
	Outlets    []string `json:"outlets,omitempty"`
}

// NetworkKeyOpts select a rendered network.
type NetworkKeyOpts struct {
	Class         string   `json:"class"`
	SnapTolerance float64  `json:"snap_tolerance"`
	Format        string   `json:"format"`
	Outlets       []string `json:"outlets,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey keys a generalized feature collection.
	ResultKey(inputHash string, opts ResultKeyOpts) string

	// NetworkKey keys a DOT or SVG rendering of a classified network.
	NetworkKey(inputHash string, opts NetworkKeyOpts) string
}

// DefaultKeyer hashes the input hash and options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey returns "result:<sha256>".
func (DefaultKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	return hashKey("result", inputHash, opts)
}

// NetworkKey returns "network:<sha256>".
func (DefaultKeyer) NetworkKey(inputHash string, opts NetworkKeyOpts) string {
	return hashKey("network", inputHash, opts)
}
