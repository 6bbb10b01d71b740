// Package lattice holds the random bond configuration of a 2D square lattice.
//
// # Overview
//
// A [Lattice] of width W and height H has W×H cells. Every cell (x, y) owns at
// most two bonds: a rightward bond to (x+1, y) and a downward bond to (x, y+1).
// Each bond is present independently with probability p (bond percolation).
// Bonds that would leave the lattice (x = W−1 to the right, y = H−1 downward)
// are always absent, whatever the random draw.
//
// # Randomness
//
// Randomness is always injected. [Generate] is a pure function of its
// *rand.Rand; [New] accepts [WithRand] or [WithSeed] and otherwise falls back
// to a PCG source seeded with [DefaultSeed]. The same seed always yields the
// same lattice:
//
//	l, err := lattice.New(40, 40, 0.5, lattice.WithSeed(7))
//
// # Mutation
//
// There is no single-bond mutation. [Lattice.Resize], [Lattice.SetProbability]
// and [Lattice.Regenerate] each redraw the whole configuration. Anything derived
// from a lattice (cluster indexes, rendered buffers) is stale after any of them.
//
// # Text Format
//
// [Lattice.MarshalText] writes one digit per cell, right + 2·down (0–3), one
// row per line, no trailing newline:
//
//	30
//	10
//
// [Parse] reads the same format back. Bonds crossing the outer boundary are
// forced absent on reconstruction, so parse(serialize(l)) equals l.
package lattice
