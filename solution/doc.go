// Package solution accumulates candidate distances for a single edge and
// elects a resolved value once the evidence clusters.
//
// The geometric solver emits up to two candidate lengths per invocation:
// one is (approximately) the true distance, the other a mirror-image
// artifact. Correct candidates agree across many gate choices and cluster
// tightly in value; artifacts scatter. A Set keeps candidates sorted and
// looks for the densest cluster via the minimum of a windowed sum over the
// discrete first differences. When that minimum drops below a threshold —
// or the set hits its hard capacity — the cluster's center becomes the
// edge's resolved value.
//
// A value seeded from a direct measurement is exact: it resolves the set
// immediately and permanently, and is never displaced by derived evidence.
package solution
