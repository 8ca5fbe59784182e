package alloc

import "testing"

func TestRootMatrixAllZero(t *testing.T) {
	root := NewRoot(2, 3)
	m := root.Matrix()
	for i := range m {
		for j := range m[i] {
			if m[i][j] {
				t.Fatalf("root matrix must be all-zero at %d,%d", i, j)
			}
		}
	}
}

func TestSuccessorsOrderStable(t *testing.T) {
	root := NewRoot(2, 2)
	kids := Successors(root)
	want := []Assignment{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	if len(kids) != len(want) {
		t.Fatalf("want %d successors, got %d", len(want), len(kids))
	}
	for i, k := range kids {
		if *k.Assignment != want[i] {
			t.Fatalf("successor %d: want %v got %v", i, want[i], *k.Assignment)
		}
	}
}

func TestSuccessorsSkipAssignedCells(t *testing.T) {
	root := NewRoot(1, 2)
	a := Assignment{Task: 0, Robot: 0}
	child := &Node{Parent: root, Assignment: &a, Depth: 1, M: 1, N: 2}

	kids := Successors(child)
	if len(kids) != 1 || *kids[0].Assignment != (Assignment{Task: 0, Robot: 1}) {
		t.Fatalf("expected single successor at (0,1), got %v", kids)
	}
}

func TestHashEqualForEqualMatrices(t *testing.T) {
	root := NewRoot(2, 2)
	a1 := Assignment{0, 0}
	a2 := Assignment{1, 1}
	left := &Node{Parent: root, Assignment: &a1, Depth: 1, M: 2, N: 2}
	left = &Node{Parent: left, Assignment: &a2, Depth: 2, M: 2, N: 2}

	right := &Node{Parent: root, Assignment: &a2, Depth: 1, M: 2, N: 2}
	right = &Node{Parent: right, Assignment: &a1, Depth: 2, M: 2, N: 2}

	if left.Hash() != right.Hash() {
		t.Fatalf("equal matrices reached via different edit order must hash equal")
	}
}

func TestHashDiffersForDifferentMatrices(t *testing.T) {
	root := NewRoot(1, 2)
	a := Assignment{0, 0}
	child := &Node{Parent: root, Assignment: &a, Depth: 1, M: 1, N: 2}

	if root.Hash() == child.Hash() {
		t.Fatalf("different matrices must hash differently")
	}
}
