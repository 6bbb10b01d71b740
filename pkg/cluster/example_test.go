package cluster_test

import (
	"fmt"

	"github.com/matzehuels/percolator/pkg/cluster"
	"github.com/matzehuels/percolator/pkg/lattice"
)

func ExampleCompute() {
	// Two cells joined by their single bond form one spanning cluster.
	l, _ := lattice.ParseString("10")
	ix := cluster.Compute(l, nil)

	fmt.Println("Clusters:", ix.Len())
	fmt.Println("Area:", ix.Cluster(0).Area())
	fmt.Println("Leaks:", ix.Leaks())
	// Output:
	// Clusters: 1
	// Area: 2
	// Leaks: true
}

func ExampleComputeBoundary() {
	// The middle column is never reached from the edges.
	l, _ := lattice.ParseString("000\n000")
	ix := cluster.ComputeBoundary(l, nil)

	_, ok := ix.At(1, 0)
	fmt.Println("Middle assigned:", ok)
	fmt.Println("Complete:", ix.Complete())
	_, err := ix.Clusters()
	fmt.Println(err)
	// Output:
	// Middle assigned: false
	// Complete: false
	// INCOMPLETE_PARTITION: boundary-seeded index covers 4 of 6 cells
}

func ExampleIndex_SizeHistogram() {
	l, _ := lattice.New(5, 5, 0)
	ix := cluster.Compute(l, nil)

	hist, _ := ix.SizeHistogram()
	for _, h := range hist {
		fmt.Printf("size %d: %d clusters\n", h.Size, h.Count)
	}
	// Output:
	// size 1: 25 clusters
}
