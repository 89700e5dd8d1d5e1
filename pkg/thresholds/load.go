package thresholds

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/cartogen/pkg/errors"
)

// document is the TOML layout of a threshold file:
//
//	[[scale]]
//	denominator = 50000
//
//	[scale.classes.lakes]
//	min_area = 5000.0
//	buffer_distance = 12.5
//
// Keys left out keep their value from the base table, or from the class's
// built-in rule evaluated at the denominator when the base table has no
// entry for it.
type document struct {
	Scale []struct {
		Denominator int                       `toml:"denominator"`
		Classes     map[string]toml.Primitive `toml:"classes"`
	} `toml:"scale"`
}

// Load reads TOML overrides on top of [DefaultTable].
func Load(r io.Reader) (*Table, error) {
	return LoadInto(DefaultTable(), r)
}

// LoadFile reads a TOML threshold file on top of [DefaultTable].
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "open thresholds file")
	}
	defer f.Close()
	return Load(f)
}

// LoadInto applies TOML overrides to base and returns it. The result is
// validated.
func LoadInto(base *Table, r io.Reader) (*Table, error) {
	var doc document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse thresholds")
	}

	for _, sc := range doc.Scale {
		if sc.Denominator < 1 {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "scale denominator must be >= 1, got %d", sc.Denominator)
		}
		for class, prim := range sc.Classes {
			if err := errs.ValidateFeatureClass(class); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "thresholds file")
			}
			set, ok := base.Get(sc.Denominator, class)
			if !ok {
				if rule, known := DefaultRule(class); known {
					set = rule.At(float64(sc.Denominator))
				}
			}
			if err := md.PrimitiveDecode(prim, &set); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "thresholds for %s at 1:%d", class, sc.Denominator)
			}
			base.Put(sc.Denominator, class, set)
		}
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown threshold keys: %s", strings.Join(keys, ", "))
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	return base, nil
}
