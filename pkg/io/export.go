package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/paulmach/orb/geojson"

	"github.com/matzehuels/cartogen/pkg/feature"
)

type featureDoc struct {
	Type       string            `json:"type"`
	ID         any               `json:"id"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties map[string]any    `json:"properties"`
}

type collectionDoc struct {
	Type     string       `json:"type"`
	Features []featureDoc `json:"features"`
}

// Marshal encodes c as a compact GeoJSON FeatureCollection. Properties are
// written with sorted keys, so equal collections encode to equal bytes.
// Features without a geometry are written with a null geometry.
func Marshal(c feature.Collection) ([]byte, error) {
	doc := collectionDoc{Type: "FeatureCollection", Features: make([]featureDoc, len(c.Features))}
	for i, f := range c.Features {
		fd := featureDoc{Type: "Feature", ID: exportID(f.ID), Properties: f.Attributes}
		if f.Geometry != nil {
			fd.Geometry = geojson.NewGeometry(f.Geometry)
		}
		if fd.Properties == nil {
			fd.Properties = map[string]any{}
		}
		doc.Features[i] = fd
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// WriteGeoJSON writes c to w as an indented GeoJSON FeatureCollection.
func WriteGeoJSON(c feature.Collection, w io.Writer) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

// ExportGeoJSON writes c to a GeoJSON file at path.
func ExportGeoJSON(c feature.Collection, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGeoJSON(c, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func exportID(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil && strconv.FormatInt(n, 10) == id {
		return n
	}
	return id
}
