// Package checkout manages the multi-repository source tree a workspace
// builds from: cloning missing repositories and updating existing ones
// according to a configured branch scheme.
package checkout
