// Package simulation wires a full simplex-mesh run: a randomly placed
// grid, a network of nodes, and the cooperative round-robin scheduler
// that drives distance completion.
//
// All run state — grid, network arena, nodes, RNG, configuration
// snapshot — lives on an explicit Simulation value; there are no package
// globals, so runs with the same seed reproduce exactly and tests can
// hold several simulations at once.
//
// A Run executes a fixed pass budget and then halts; partial progress is
// valid output. Reporting helpers expose the resolved distance matrix,
// errors against ground truth, and least-squares position fixes for every
// node that reached its required anchors.
package simulation
