package io

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"

	errs "github.com/matzehuels/cartogen/pkg/errors"
	"github.com/matzehuels/cartogen/pkg/feature"
)

const mixed = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": 7, "geometry": {"type": "LineString", "coordinates": [[0, 0], [10, 0]]}, "properties": {"class": "watercourses", "outlet": true}},
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[10, 0], [10, 5]]}, "properties": {"id": "a2"}},
    {"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 0]]]}, "properties": {"class": "lakes"}},
    {"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[10, 5], [12, 9]]}, "properties": {}}
  ]
}`

func ids(c feature.Collection) []string {
	out := make([]string, len(c.Features))
	for i, f := range c.Features {
		out[i] = f.ID
	}
	return out
}

func TestReadGeoJSON(t *testing.T) {
	c, err := ReadGeoJSON(strings.NewReader(mixed), "watercourses")
	if err != nil {
		t.Fatalf("ReadGeoJSON() error = %v", err)
	}
	if c.Class != "watercourses" {
		t.Errorf("Class = %q, want watercourses", c.Class)
	}
	if diff := cmp.Diff([]string{"7", "a2", "4"}, ids(c)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if !c.Features[0].Flag(feature.AttrOutlet) {
		t.Error("outlet attribute lost")
	}
	want := orb.LineString{{0, 0}, {10, 0}}
	if got, ok := c.Features[0].Geometry.(orb.LineString); !ok || !orb.Equal(got, want) {
		t.Errorf("Geometry = %v, want %v", c.Features[0].Geometry, want)
	}
}

func TestReadGeoJSONAllClasses(t *testing.T) {
	c, err := ReadGeoJSON(strings.NewReader(mixed), "")
	if err != nil {
		t.Fatalf("ReadGeoJSON() error = %v", err)
	}
	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
}

func TestReadGeoJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed", `{"type": "FeatureCollection", "features": [`},
		{"duplicate ids", `{"type": "FeatureCollection", "features": [
			{"type": "Feature", "id": 1, "geometry": null, "properties": {}},
			{"type": "Feature", "geometry": null, "properties": {"id": "1"}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGeoJSON(strings.NewReader(tt.in), "")
			if !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("ReadGeoJSON() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestWriteGeoJSONRoundTrip(t *testing.T) {
	in := feature.Collection{Class: "lakes", Features: []feature.Feature{
		{ID: "12", Geometry: orb.Polygon{{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}}, Attributes: map[string]any{"name": "Pond"}},
		{ID: "north", Geometry: orb.Point{1, 2}},
		{ID: "3"},
	}}

	var buf bytes.Buffer
	if err := WriteGeoJSON(in, &buf); err != nil {
		t.Fatalf("WriteGeoJSON() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"id": 12`) {
		t.Errorf("numeric id not written as a number:\n%s", buf.String())
	}

	out, err := ReadGeoJSON(&buf, "lakes")
	if err != nil {
		t.Fatalf("ReadGeoJSON() error = %v", err)
	}
	if diff := cmp.Diff([]string{"12", "north", "3"}, ids(out)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if out.Features[0].Attributes["name"] != "Pond" {
		t.Errorf("name = %v, want Pond", out.Features[0].Attributes["name"])
	}
	if out.Features[2].Geometry != nil {
		t.Errorf("Geometry = %v, want nil", out.Features[2].Geometry)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	c := feature.Collection{Features: []feature.Feature{
		{ID: "1", Geometry: orb.Point{0, 0}, Attributes: map[string]any{"b": 1.0, "a": "x", "c": true}},
	}}
	first, err := Marshal(c)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for range 5 {
		again, _ := Marshal(c)
		if !bytes.Equal(first, again) {
			t.Fatalf("Marshal() not deterministic: %s vs %s", first, again)
		}
	}
}
