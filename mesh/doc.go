// Package mesh implements the distributed distance-completion engine: the
// per-node state machine that grows a node's distance table from "direct
// neighbors only" to "every reachable node".
//
// Each node starts by measuring its neighbors through a range filter and
// seeding those edges as exact. From then on a scheduler repeatedly calls
// Step: the node picks a target and a gate (two nodes whose distances both
// the node and the target already know), fetches the five known edge
// lengths of the resulting tetrahedron, and asks the simplex solver for
// the missing one. The candidate roots flow into the SolutionSets of both
// endpoints; once a set's evidence clusters, the edge is resolved and
// unlocks further gate/target combinations.
//
// Every data fetch may come back empty — a step silently no-ops and the
// scheduler's next pass is the retry. No step ever fails.
//
// Nodes address each other only by id through the Network arena; no node
// holds a peer pointer. All remote calls are synchronous method calls that
// read or append to the remote node's state under its mutex, so the engine
// also runs with one goroutine per node.
package mesh
