package vote

import "testing"

func TestChooseClassStandard(t *testing.T) {
	labels := []string{"A", "B"}
	support := []int{3, 1}
	sizes := []int{5, 5}
	if got := ChooseClass(labels, support, sizes, false); got != "A" {
		t.Errorf("expected A, got %s", got)
	}
}

func TestChooseClassNormalizedFlipsWinner(t *testing.T) {
	labels := []string{"A", "B"}
	support := []int{3, 1}
	sizes := []int{100, 1} // A's support is tiny relative to its class size
	if got := ChooseClass(labels, support, sizes, true); got != "B" {
		t.Errorf("expected normalized vote to favor B, got %s", got)
	}
}

func TestChooseClassTieBreakByLabel(t *testing.T) {
	// Scenario S3: equal support, equal class sizes -> lexicographically
	// smallest label wins under both voting rules.
	labels := []string{"B", "A"}
	support := []int{2, 2}
	sizes := []int{2, 2}
	if got := ChooseClass(labels, support, sizes, false); got != "A" {
		t.Errorf("standard: expected tie-break to pick A, got %s", got)
	}
	if got := ChooseClass(labels, support, sizes, true); got != "A" {
		t.Errorf("normalized: expected tie-break to pick A, got %s", got)
	}
}

func TestChooseClassZeroClassSizeYieldsZeroScore(t *testing.T) {
	labels := []string{"A", "B"}
	support := []int{0, 0}
	sizes := []int{0, 3}
	// Both classes score 0 under normalization; "A" wins the tie-break.
	if got := ChooseClass(labels, support, sizes, true); got != "A" {
		t.Errorf("expected A via tie-break when both scores are 0, got %s", got)
	}
}

func TestChooseClassEmptySupportStillPicksAClass(t *testing.T) {
	labels := []string{"B", "A", "C"}
	support := []int{0, 0, 0}
	sizes := []int{4, 4, 4}
	got := ChooseClass(labels, support, sizes, false)
	if got != "A" {
		t.Errorf("expected the lexicographically smallest label (A) to win an all-zero vote, got %s", got)
	}
}

func TestChooseClassDeterministicUnderPermutation(t *testing.T) {
	labelsA := []string{"A", "B", "C"}
	supportA := []int{2, 2, 1}
	sizesA := []int{10, 10, 10}

	labelsB := []string{"C", "A", "B"}
	supportB := []int{1, 2, 2}
	sizesB := []int{10, 10, 10}

	gotA := ChooseClass(labelsA, supportA, sizesA, false)
	gotB := ChooseClass(labelsB, supportB, sizesB, false)
	if gotA != gotB {
		t.Errorf("expected permutation-invariant result, got %s vs %s", gotA, gotB)
	}
}
