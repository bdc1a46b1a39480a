// internal/nodeid/doc.go

/*
Package nodeid provides a structured, type-safe representation for the
identifiers of nodes in the build graph.

The canonical format is a dot-separated sequence of segments, each with an
optional index, e.g. `product.ml_runtime.main` or `pool.workers[3]`. Product
nodes always use the three-segment form `product.<adapter>.<name>`.

This package enforces the identifier schema and centralizes all formatting
and parsing logic.
*/
package nodeid
