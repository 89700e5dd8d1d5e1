package io

import (
	"io"
	"math"
	"os"
	"strconv"

	"github.com/paulmach/orb/geojson"

	errs "github.com/matzehuels/cartogen/pkg/errors"
	"github.com/matzehuels/cartogen/pkg/feature"
)

// ReadGeoJSON decodes a GeoJSON FeatureCollection from r.
//
// If class is non-empty, features whose "class" property names another
// class are skipped and the returned collection carries class. ReadGeoJSON
// returns an INVALID_INPUT error if the document is not a FeatureCollection
// or two features share an identifier. It does not close r.
func ReadGeoJSON(r io.Reader, class string) (feature.Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return feature.Collection{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "read geojson")
	}
	return Unmarshal(data, class)
}

// Unmarshal decodes a GeoJSON FeatureCollection. See [ReadGeoJSON].
func Unmarshal(data []byte, class string) (feature.Collection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return feature.Collection{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode geojson")
	}

	out := feature.Collection{Class: class, Features: make([]feature.Feature, 0, len(fc.Features))}
	seen := make(map[string]int, len(fc.Features))
	for i, gf := range fc.Features {
		if class != "" && !inClass(gf, class) {
			continue
		}
		id := featureID(gf, i)
		if prev, dup := seen[id]; dup {
			return feature.Collection{}, errs.New(errs.ErrCodeInvalidInput,
				"features %d and %d share id %q", prev+1, i+1, id)
		}
		seen[id] = i

		attrs := make(map[string]any, len(gf.Properties))
		for k, v := range gf.Properties {
			attrs[k] = v
		}
		out.Features = append(out.Features, feature.Feature{
			ID:         id,
			Geometry:   gf.Geometry,
			Attributes: attrs,
		})
	}
	return out, nil
}

// ImportGeoJSON reads a GeoJSON FeatureCollection from the file at path.
func ImportGeoJSON(path, class string) (feature.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return feature.Collection{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadGeoJSON(f, class)
}

func inClass(gf *geojson.Feature, class string) bool {
	v, ok := gf.Properties[feature.AttrClass]
	if !ok {
		return true
	}
	s, ok := v.(string)
	return !ok || s == "" || s == class
}

func featureID(gf *geojson.Feature, i int) string {
	if s, ok := idString(gf.ID); ok {
		return s
	}
	if s, ok := idString(gf.Properties["id"]); ok {
		return s
	}
	return strconv.Itoa(i + 1)
}

func idString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'g', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	}
	return "", false
}
