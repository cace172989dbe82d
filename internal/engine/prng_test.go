package engine

import "testing"

func TestRunSeedDeterminism(t *testing.T) {
	r1, _ := NewRunSeed("alpha-seed")
	r2, _ := NewRunSeed("alpha-seed")
	s1 := r1.Stream("chaos:2024-05-01:1").Intn(1000000)
	s2 := r2.Stream("chaos:2024-05-01:1").Intn(1000000)
	if s1 != s2 {
		t.Fatalf("streams differ: %d vs %d", s1, s2)
	}
	if r1.Stream("missions:2024-05-01").Intn(1000000) == r1.Stream("missions:2024-05-02").Intn(1000000) {
		t.Fatal("labels should yield different streams")
	}
}

func TestNewRunSeedRejectsEmpty(t *testing.T) {
	if _, err := NewRunSeed(""); err == nil {
		t.Fatal("expected error for empty seed")
	}
}

func TestNewSeedText(t *testing.T) {
	s, err := NewSeedText()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(s) != 24 {
		t.Fatalf("expected 24 chars, got %d (%q)", len(s), s)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	seed, _ := NewRunSeed("shuffle")
	idx := []int{0, 1, 2, 3, 4, 5, 6, 7}
	shuffle(seed.Stream("s"), idx)
	seen := map[int]bool{}
	for _, v := range idx {
		seen[v] = true
	}
	if len(seen) != 8 {
		t.Fatalf("shuffle lost elements: %v", idx)
	}
}
