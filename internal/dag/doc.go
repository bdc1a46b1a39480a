// Package dag builds the dependency graph of configured products. It turns
// a config.Model into a Directed Acyclic Graph (DAG) of nodes, resolving
// both explicit `depends_on` references and the implicit dependencies
// implied by `product.*` expressions, and validates the result before the
// executor walks it.
package dag
