// Package clustering screens machine-grouped story clusters against existing
// topic proposals and turns selected clusters into new draft proposals.
//
// Grouping stories and writing proposal copy are delegated to an Oracle. The
// package owns the deterministic parts around it: validating the oracle's
// output, computing overlap percentages against prior proposals, capping the
// generation batch, and caching previews for a short time.
package clustering
