package gibbs

import (
	"math/rand"
	"testing"
)

func TestSquaredDistanceSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		a := make([]float64, 8)
		b := make([]float64, 8)
		for i := range a {
			a[i] = rng.NormFloat64() * 10
			b[i] = rng.NormFloat64() * 10
		}
		if got, want := SquaredDistance(a, b), SquaredDistance(b, a); got != want {
			t.Fatalf("asymmetric distance: d(a,b)=%v d(b,a)=%v", got, want)
		}
	}
}

func TestSquaredDistanceZeroIffEqual(t *testing.T) {
	a := []float64{1.5, -2.0, 3.25}
	if d := SquaredDistance(a, a); d != 0 {
		t.Fatalf("distance to self: got=%v want=0", d)
	}
	b := []float64{1.5, -2.0, 3.26}
	if d := SquaredDistance(a, b); d <= 0 {
		t.Fatalf("distance of unequal windows must be > 0, got=%v", d)
	}
}

func TestSquaredDistanceValue(t *testing.T) {
	a := []float64{0, 0, 0}
	b := []float64{1, 2, 3}
	if d := SquaredDistance(a, b); d != 14 {
		t.Fatalf("got=%v want=14", d)
	}
}
