// Package feature defines the feature model shared by every generalization
// stage: a geometry plus opaque attributes, grouped into collections that
// belong to one feature class.
//
// Features are values. Stages never modify a Feature in place; they derive a
// new one with [Feature.WithGeometry] so that a stage's input stays available
// for fallbacks.
package feature

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Well-known attribute names read by the core.
const (
	// AttrOutlet marks a line whose downstream end is a network outlet.
	AttrOutlet = "outlet"
	// AttrClass carries the feature class tag when features are mixed on input.
	AttrClass = "class"
)

// Feature is one geometry with its attributes.
type Feature struct {
	ID         string
	Geometry   orb.Geometry
	Attributes map[string]any
}

// WithGeometry returns a copy of f carrying g. Attributes are copied so the
// result can be annotated without touching f.
func (f Feature) WithGeometry(g orb.Geometry) Feature {
	return Feature{ID: f.ID, Geometry: g, Attributes: maps.Clone(f.Attributes)}
}

// Attr returns the attribute named key.
func (f Feature) Attr(key string) (any, bool) {
	v, ok := f.Attributes[key]
	return v, ok
}

// Flag reports whether the attribute named key is set to a truthy value:
// true, a non-zero number, or one of "1", "true", "yes", "y".
func (f Feature) Flag(key string) bool {
	v, ok := f.Attributes[key]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		switch t {
		case "1", "true", "TRUE", "True", "yes", "y":
			return true
		}
	}
	return false
}

// Collection is an ordered sequence of features of one class.
type Collection struct {
	Class    string
	Features []Feature
}

// Len returns the number of features.
func (c Collection) Len() int { return len(c.Features) }

// Index returns the position of each feature ID.
func (c Collection) Index() map[string]int {
	idx := make(map[string]int, len(c.Features))
	for i, f := range c.Features {
		idx[f.ID] = i
	}
	return idx
}

// Filter returns a new collection with the features for which keep returns
// true, preserving order.
func (c Collection) Filter(keep func(Feature) bool) Collection {
	out := Collection{Class: c.Class, Features: make([]Feature, 0, len(c.Features))}
	for _, f := range c.Features {
		if keep(f) {
			out.Features = append(out.Features, f)
		}
	}
	return out
}

// Sorted returns a copy of the collection ordered by [CompareIDs].
func (c Collection) Sorted() Collection {
	fs := slices.Clone(c.Features)
	slices.SortStableFunc(fs, func(a, b Feature) int { return CompareIDs(a.ID, b.ID) })
	return Collection{Class: c.Class, Features: fs}
}

// CompareIDs orders feature identifiers. Two identifiers that both parse as
// integers compare numerically so that "9" sorts before "10", and by string
// when their values are equal ("01" before "1"); otherwise they compare as
// strings. Integers sort before non-integers. Distinct identifiers never
// compare equal.
func CompareIDs(a, b string) int {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		return cmp.Or(cmp.Compare(ai, bi), strings.Compare(a, b))
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a, b)
}
