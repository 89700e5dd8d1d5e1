// Package io reads and writes feature collections as GeoJSON.
//
// # Overview
//
// The generalization core works on [feature.Collection] values. This
// package is the boundary to files: it decodes a GeoJSON FeatureCollection
// into a collection of one feature class and encodes results back, using
// github.com/paulmach/orb/geojson for the wire format.
//
// # Identifiers
//
// Every feature needs a stable identifier for deterministic tie-breaking.
// [ReadGeoJSON] takes it from the GeoJSON "id" member, falling back to an
// "id" property. Features with neither are numbered by their position in
// the file, starting at 1. Duplicate identifiers are rejected.
//
// # Mixed Classes
//
// A file may hold several classes, tagged by a "class" property. Reading
// with a class keeps the features tagged with that class and the untagged
// ones:
//
//	c, err := io.ImportGeoJSON("hydro.geojson", "watercourses")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// [WriteGeoJSON] writes features in collection order with their attributes
// as properties. Integer identifiers are written as numbers so files that
// used numeric ids keep them. [Marshal] returns the compact encoding used
// for content hashes.
package io
