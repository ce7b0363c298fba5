package rng

import "testing"

func TestCSPRNGIntNRange(t *testing.T) {
	c, err := NewCSPRNG()
	if err != nil {
		t.Fatalf("NewCSPRNG() error: %v", err)
	}
	for _, n := range []int{1, 2, 7, 1000} {
		for i := 0; i < 1000; i++ {
			v, err := c.IntN(n)
			if err != nil {
				t.Fatalf("IntN(%d) error: %v", n, err)
			}
			if v < 0 || v >= n {
				t.Fatalf("IntN(%d) = %d, out of range", n, v)
			}
		}
	}
}

func TestCSPRNGIntNRejectsNonPositive(t *testing.T) {
	c, err := NewCSPRNG()
	if err != nil {
		t.Fatalf("NewCSPRNG() error: %v", err)
	}
	for _, n := range []int{0, -1} {
		if _, err := c.IntN(n); err == nil {
			t.Fatalf("IntN(%d) did not error", n)
		}
	}
}

func TestSeededSourceIsDeterministic(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 100; i++ {
		va, err := a.IntN(1000)
		if err != nil {
			t.Fatalf("IntN error: %v", err)
		}
		vb, err := b.IntN(1000)
		if err != nil {
			t.Fatalf("IntN error: %v", err)
		}
		if va != vb {
			t.Fatalf("sequence diverged at %d: %d != %d", i, va, vb)
		}
	}
}

func TestDefaultSourceIsShared(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}
	if Default() != Default() {
		t.Fatal("Default() is not a singleton")
	}
}
