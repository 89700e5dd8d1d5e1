// Package geometry provides the primitive geometry operations used by the
// generalization stages.
//
// # Overview
//
// Geometries are [orb] values. Operations that orb does not provide
// (buffering, overlay, validity checks, oriented envelopes) run on GEOS via
// github.com/twpayne/go-geos. Geometries cross the boundary as WKB, which
// keeps coordinates bit-exact in both directions.
//
// Every function here is pure: inputs are never modified and no state is
// shared between calls. Distances and areas are in the native linear unit
// of the coordinates.
//
// # Buffering
//
// [Buffer] offsets a geometry by a signed distance with configurable join
// and cap styles ([BufferOptions]). A zero distance returns an equal copy;
// negative distances erode. Inputs must be valid, and a polygon input whose
// buffer collapses to empty is reported as a GEOMETRY_ERROR.
//
// # Rings
//
// [ExtractInteriorRings] and [RemoveSmallInteriorRings] handle polygon holes.
// [Orient] normalizes ring winding to exterior counter-clockwise and holes
// clockwise; every polygon returned by this package is oriented that way.
//
// # Thin Parts
//
// [ExaggerateThinParts] widens the narrow sub-regions of a polygon. Which
// regions count as narrow is decided by a [WidthEstimator]:
//
//   - [ErosionWidth] (default): a morphological opening with flat caps and
//     mitre joins removes every part narrower than the minimum width; the
//     difference between the polygon and its opening is the narrow region.
//     Straight-sided parts are measured exactly. Parts whose width varies are
//     detected where the local width falls below the threshold, and slivers
//     thinner than the sliver tolerance are discarded.
//   - [EnvelopeWidth]: the whole polygon is narrow when the short side of its
//     minimum rotated rectangle is below the threshold and its elongation is
//     below a limit. This is the estimate used for islands.
//
// # Smoothing
//
// [Smooth] applies Chaikin corner cutting. [SmoothKeepTopology] smooths a set
// of geometries while pinning every coordinate shared by two or more of them,
// so junctions and shared boundaries stay in place.
package geometry
