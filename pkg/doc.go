// Package pkg provides the core libraries of cartogen, a cartographic
// generalization engine.
//
// # Overview
//
// cartogen derives geometries for a coarser map scale from features captured
// at a finer scale. Polygon classes (lakes, seas, islands) are generalized one
// feature at a time; line classes (watercourses, roads, railroads) are
// generalized as a network. The pkg directory is organized into three areas:
//
//  1. Domain logic: [feature], [geometry], [network], [network/structure],
//     [filter], [shape] and [thresholds]
//  2. Orchestration: [pipeline] runs the stage sequence of a class
//  3. Infrastructure: [io], [cache], [observability], [errors] and [buildinfo]
//
// # Architecture
//
// The data flow of a line class:
//
//	GeoJSON
//	   ↓
//	[io] (decode into a feature.Collection)
//	   ↓
//	[network] (build the snapped node/edge graph)
//	   ↓
//	[network/structure] (main path, tributaries, isolated edges)
//	   ↓
//	[filter] (drop short and dense non-main features)
//	   ↓
//	[shape] (smooth the kept lines, junctions pinned)
//
// Polygon classes skip the network and run [shape] elimination followed by
// per-feature generalization.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/cartogen/pkg/io"
//	    "github.com/matzehuels/cartogen/pkg/pipeline"
//	)
//
//	coll, _ := io.ImportGeoJSON("rivers.geojson", "watercourses")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.Run(context.Background(), "watercourses", coll, 50000)
//	_ = io.ExportGeoJSON(res.Collection, "rivers_50k.geojson")
//
// # Failures
//
// A run fails only for an unsupported class, an invalid scale or threshold
// table, or cancellation. Problems with single features are collected in
// [pipeline.Result] as warnings and item errors while the other features are
// still processed.
//
// [feature]: https://pkg.go.dev/github.com/matzehuels/cartogen/pkg/feature
// [geometry]: https://pkg.go.dev/github.com/matzehuels/cartogen/pkg/geometry
// [network]: https://pkg.go.dev/github.com/matzehuels/cartogen/pkg/network
// [network/structure]: https://pkg.go.dev/github.com/matzehuels/cartogen/pkg/network/structure
// [filter]: https://pkg.go.dev/github.com/matzehuels/cartogen/pkg/filter
// [shape]: https://pkg.go.dev/github.com/matzehuels/cartogen/pkg/shape
// [thresholds]: https://pkg.go.dev/github.com/matzehuels/cartogen/pkg/thresholds
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cartogen/pkg/pipeline
// [pipeline.Result]: https://pkg.go.dev/github.com/matzehuels/cartogen/pkg/pipeline#Result
// [io]: https://pkg.go.dev/github.com/matzehuels/cartogen/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/cartogen/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/cartogen/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/cartogen/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/cartogen/pkg/buildinfo
package pkg
