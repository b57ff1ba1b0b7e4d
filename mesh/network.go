package mesh

import (
	"sort"
	"sync"

	"github.com/OilyCannelloni/simplex-mesh/grid"
)

// Network is the address book of the mesh: a dense id→node arena through
// which all inter-node messages are routed. It owns no node state beyond
// the mapping; nodes reference peers exclusively by id and resolve them
// here on every call.
type Network struct {
	mu    sync.RWMutex
	nodes map[grid.NodeID]*Node
}

// NewNetwork returns an empty arena.
func NewNetwork() *Network {
	return &Network{nodes: make(map[grid.NodeID]*Node)}
}

// AddNode registers a node. Returns ErrDuplicateID if the id is taken.
func (nw *Network) AddNode(n *Node) error {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	if _, ok := nw.nodes[n.id]; ok {
		return ErrDuplicateID
	}
	nw.nodes[n.id] = n

	return nil
}

// Node returns the node registered under id, or false.
func (nw *Network) Node(id grid.NodeID) (*Node, bool) {
	nw.mu.RLock()
	defer nw.mu.RUnlock()
	n, ok := nw.nodes[id]

	return n, ok
}

// Len returns the number of registered nodes.
func (nw *Network) Len() int {
	nw.mu.RLock()
	defer nw.mu.RUnlock()

	return len(nw.nodes)
}

// Nodes returns all registered nodes in id order.
func (nw *Network) Nodes() []*Node {
	nw.mu.RLock()
	defer nw.mu.RUnlock()
	out := make([]*Node, 0, len(nw.nodes))
	for _, n := range nw.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })

	return out
}
