// Package executor walks the validated product graph and drives each
// product through its lifecycle phases. The walk is sequential: builds
// run in topological order, then tests, then installs, and a failure
// anywhere stops the run and marks everything downstream as skipped.
package executor
