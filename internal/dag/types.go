package dag

import (
	"sync/atomic"

	"github.com/buildrig/buildrig/internal/config"
	"github.com/buildrig/buildrig/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// Graph is a collection of product nodes and their dependencies,
// representing a DAG.
type Graph struct {
	// Nodes stores all nodes in the graph, keyed by their canonical
	// address string.
	Nodes map[string]*Node
}

// Node is a single vertex in the graph, representing one configured
// product instance.
type Node struct {
	// id is the unique, machine-readable, structured identifier for the node.
	id *nodeid.Address
	// Name is the human-readable instance name from the configuration.
	Name string
	// Product holds the configuration block this node was created from.
	Product *config.Product

	// Deps holds the set of nodes that this node depends on (predecessors).
	Deps map[string]*Node
	// Dependents holds the set of nodes that depend on this node (successors).
	Dependents map[string]*Node

	// Error stores any error that occurred during the node's execution.
	Error error
	// Output stores the node's declared outputs for use by downstream nodes.
	Output cty.Value

	// state is the node's current execution state, managed atomically.
	state atomic.Int32
}

// ID returns the canonical string representation of the node's address.
func (n *Node) ID() string {
	return n.id.String()
}

// Address returns the structured address of the node.
func (n *Node) Address() *nodeid.Address {
	return n.id
}

// SetState atomically sets the node's execution state.
func (n *Node) SetState(s State) {
	n.state.Store(int32(s))
}

// GetState atomically retrieves the node's execution state.
func (n *Node) GetState() State {
	return State(n.state.Load())
}

// State represents the execution state of a node in the graph.
type State int32

const (
	// Pending indicates the node is waiting for its dependencies to complete.
	Pending State = iota
	// Running indicates the node is currently being executed.
	Running
	// Done indicates the node has completed execution successfully.
	Done
	// Failed indicates the node has failed execution or was skipped.
	Failed
)
