// Package shape generalizes individual polygon features and smooths line
// features after network filtering.
//
// # Polygon Classes
//
// A [Generalizer] is built once per run for one of the polygon classes
// (lakes, seas, islands) and a resolved [thresholds.Set]. Each class has a
// fixed [Profile]:
//
//	lakes    eliminate small → split islands → exaggerate thin parts → round trip → re-insert islands → drop small holes
//	seas     split islands → exaggerate thin parts → round trip → re-insert islands → drop small holes
//	islands  eliminate small → widen thin islands → exaggerate thin parts → round trip → drop small holes
//
// The round trip buffers outwards by BufferDistance, smooths, and buffers
// back in by the same distance. It closes small inlets and rounds sharp
// spikes while keeping the area close to the original. Thin parts are
// exaggerated before the round trip so the inward buffer does not erase
// them again. A negative BufferDistance runs the opposite sequence, an
// opening.
//
// Holes of lakes and seas are islands. They are cut out, generalized as
// islands (widened when thin and elongated, simplified, smoothed) and cut
// back into the generalized exterior.
//
// # Failure Handling
//
// Invalid input is a GEOMETRY_ERROR for that feature. A round trip that
// collapses or turns invalid falls back to the geometry it started from
// and records a FALLBACK_UNCHANGED warning; the generalizer never emits an
// invalid geometry. With [Generalizer.GeneralizeAll], neighbouring features
// are obstacles: growth into them is clipped away and reported as CLIPPED.
//
// # Lines
//
// [SmoothLines] smooths line features with pinned shared coordinates, so
// junctions between lines stay where the network put them.
package shape
