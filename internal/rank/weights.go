package rank

import "math"

// Weights is the raw or normalized weighting of the four scored attributes.
type Weights struct {
	Price   float64
	Mileage float64
	Year    float64
	Power   float64
}

// DefaultWeights is the fallback vector used when the user submits all-zero
// or unparseable weights (pre-normalization, 0..10 slider scale).
func DefaultWeights() Weights {
	return Weights{Price: 3, Mileage: 7, Year: 2, Power: 1}
}

func (w Weights) Sum() float64 {
	return w.Price + w.Mileage + w.Year + w.Power
}

// Normalize scales the weights so they sum to 1. A non-positive sum falls
// back to the default vector first, so the result is always well defined.
func (w Weights) Normalize() Weights {
	if w.Sum() <= 0 {
		w = DefaultWeights()
	}
	s := w.Sum()
	return Weights{
		Price:   w.Price / s,
		Mileage: w.Mileage / s,
		Year:    w.Year / s,
		Power:   w.Power / s,
	}
}

// Intensify sharpens normalized weights: each component is raised to alpha
// and the vector renormalized, so already-dominant weights dominate harder.
func (w Weights) Intensify(alpha float64) Weights {
	p := Weights{
		Price:   math.Pow(w.Price, alpha),
		Mileage: math.Pow(w.Mileage, alpha),
		Year:    math.Pow(w.Year, alpha),
		Power:   math.Pow(w.Power, alpha),
	}
	return p.Normalize()
}

// Map exposes the vector keyed by attribute name for presentation payloads.
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		"price":   w.Price,
		"mileage": w.Mileage,
		"year":    w.Year,
		"power":   w.Power,
	}
}

// WeightsFromMap builds a vector from configuration, ignoring unknown keys.
func WeightsFromMap(m map[string]float64) Weights {
	return Weights{
		Price:   m["price"],
		Mileage: m["mileage"],
		Year:    m["year"],
		Power:   m["power"],
	}
}
