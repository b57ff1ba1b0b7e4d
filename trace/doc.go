// Package trace plays back recorded ranging sessions. A trace is a
// line-oriented CSV stream with a leading type tag per record:
//
//	target,<x>,<y>            ground truth of the tracked node (optional)
//	anchor,<x>,<y>,<mac>      anchor declaration
//	measurement,<d>,<mac>     one raw range sample to an anchor
//
// The player feeds each anchor's samples through a ranging.Filter and,
// whenever at least three anchors hold a valid estimate, emits a 2D
// least-squares position fix. Malformed rows are counted and skipped,
// never fatal — a serial capture is allowed to be dirty.
package trace
