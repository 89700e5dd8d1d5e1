package io_test

import (
	"fmt"
	"strings"

	pkgio "github.com/matzehuels/cartogen/pkg/io"
)

func ExampleReadGeoJSON() {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":12,"properties":{"class":"roads"},
		 "geometry":{"type":"LineString","coordinates":[[0,0],[10,0]]}},
		{"type":"Feature","properties":{"class":"railroads"},
		 "geometry":{"type":"LineString","coordinates":[[0,5],[10,5]]}},
		{"type":"Feature","properties":{"name":"Main St"},
		 "geometry":{"type":"LineString","coordinates":[[10,0],[10,10]]}}
	]}`

	c, err := pkgio.ReadGeoJSON(strings.NewReader(doc), "roads")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, f := range c.Features {
		fmt.Println(f.ID, f.Geometry.GeoJSONType())
	}
	// Output:
	// 12 LineString
	// 3 LineString
}
