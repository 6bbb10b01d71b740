package lattice_test

import (
	"fmt"

	"github.com/matzehuels/percolator/pkg/lattice"
)

func ExampleNew() {
	// p = 1 places every bond except those crossing the boundary.
	l, _ := lattice.New(3, 2, 1, lattice.WithSeed(42))

	fmt.Println("Cells:", l.Cells())
	fmt.Println("Bonds:", l.Bonds(), "of", l.Slots())
	fmt.Println(l)
	// Output:
	// Cells: 6
	// Bonds: 7 of 7
	// 332
	// 110
}

func ExampleParseString() {
	// Each digit is right + 2·down. The 3 in the last column names a
	// rightward bond that would leave the lattice, so it is dropped.
	l, err := lattice.ParseString("13\n00\n")
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("Size:", l.Width(), "x", l.Height())
	fmt.Println("Right(0,0):", l.Right(0, 0))
	fmt.Println("Down(1,0):", l.Down(1, 0))
	fmt.Println(l)
	// Output:
	// Size: 2 x 2
	// Right(0,0): true
	// Down(1,0): true
	// 12
	// 00
}

func ExampleParseString_invalid() {
	_, err := lattice.ParseString("01\n0")
	fmt.Println(err)
	// Output:
	// INVALID_TEXT: row 1 has 1 cells, want 2
}
