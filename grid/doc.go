// Package grid simulates the physical world a simplex-mesh network lives in:
// node placement on a bounded plane, noisy neighbor-range measurements,
// radio-reach adjacency, and BFS hop layering.
//
// A Grid is the single oracle the mesh core consumes. It answers three
// questions a deployed node could answer with hardware:
//
//   - MeasuredDistance(origin, target): a noisy ranging sample, present only
//     when the target is within radio reach;
//   - NeighborsOf(id): the ids currently within reach;
//   - HopLayersFrom(id): the BFS depth classes of the reachability graph.
//
// TruePosition and TrueDistance expose ground truth for anchors and for
// evaluating results; the mesh core itself only reads ground truth through
// the anchor path.
//
// Construction is deterministic when seeded via WithSeed or WithRand.
// An optional wall list (WithWalls) turns the grid into an occluded
// environment: walls block both placement and ranging.
package grid
