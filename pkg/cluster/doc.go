// Package cluster partitions a lattice into connected components.
//
// # Overview
//
// Two cells belong to the same [Cluster] exactly when a path of present bonds
// joins them. [Compute] builds the complete partition: every cell is labelled
// with the [ID] of its cluster and every cluster is maximal.
//
//	ix := cluster.Compute(l, cluster.RandomColors(lattice.NewRand(1)))
//	clusters, _ := ix.Clusters()
//	fmt.Println(len(clusters), ix.Leaks())
//
// # Leak Queries
//
// A lattice leaks (spans) when one cluster touches both the left column and
// the right column. [ComputeBoundary] answers that question by traversing only
// from the two boundary columns. Its index is incomplete: interior clusters
// are never discovered and their cells stay unassigned. [Index.Clusters]
// refuses to return a list for such an index; [Index.Leaks] works for both.
//
// # Traversal
//
// Components are collected with an iterative depth-first search over an
// explicit stack, so lattice size is not limited by goroutine stack depth.
// Neighbours are visited in a fixed order: left, down, up, right. The order
// only affects visitation inside a component, never the partition, but it
// keeps IDs and debug output reproducible.
//
// # Lifetime
//
// An Index is a snapshot. Regenerating, resizing or changing the probability
// of the source lattice invalidates it and every *Cluster it returned; compute
// a new one. A finished Index is safe for concurrent readers.
package cluster
