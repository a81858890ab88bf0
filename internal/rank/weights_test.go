package rank

import (
	"math"
	"testing"
)

func TestNormalizeSumsToOne(t *testing.T) {
	w := Weights{Price: 3, Mileage: 7, Year: 2, Power: 1}.Normalize()
	if d := math.Abs(w.Sum() - 1); d > 1e-9 {
		t.Fatalf("normalized weights sum to %v", w.Sum())
	}
	if math.Abs(w.Mileage-7.0/13.0) > 1e-9 {
		t.Fatalf("mileage weight wrong: %v", w.Mileage)
	}
}

func TestNormalizeZeroWeightsFallsBackToDefault(t *testing.T) {
	w := Weights{}.Normalize()
	want := DefaultWeights().Normalize()
	if w != want {
		t.Fatalf("expected default fallback %+v, got %+v", want, w)
	}
}

func TestIntensifyKeepsSumAndAmplifiesDominantWeight(t *testing.T) {
	w := DefaultWeights().Normalize()
	strong := w.Intensify(3.0)
	if d := math.Abs(strong.Sum() - 1); d > 1e-9 {
		t.Fatalf("intensified weights sum to %v", strong.Sum())
	}
	if strong.Mileage <= w.Mileage {
		t.Fatalf("dominant weight must grow: %v <= %v", strong.Mileage, w.Mileage)
	}
	if strong.Power >= w.Power {
		t.Fatalf("minor weight must shrink: %v >= %v", strong.Power, w.Power)
	}
}

func TestIntensifyUniformWeightsIsStable(t *testing.T) {
	w := Weights{Price: 1, Mileage: 1, Year: 1, Power: 1}.Normalize()
	strong := w.Intensify(3.0)
	if math.Abs(strong.Price-0.25) > 1e-9 {
		t.Fatalf("uniform weights must stay uniform, got %+v", strong)
	}
}
