package rank

import "github.com/mkowalik/carscout/models"

// neutralFitness is used whenever an attribute carries no discriminative
// signal (missing value, empty candidate set, or zero variance).
const neutralFitness = 0.5

// Range holds min-max calibration for one numeric attribute over a candidate
// set. Valid is false when the range is degenerate.
type Range struct {
	Min   float64
	Max   float64
	Valid bool
}

// LowerBetter maps a "lower is better" value (price, mileage) onto [0,1]
// relative to the calibrated range.
func (r Range) LowerBetter(v *float64) float64 {
	if v == nil || !r.Valid {
		return neutralFitness
	}
	return clamp01((r.Max - *v) / (r.Max - r.Min))
}

// HigherBetter maps a "higher is better" value (year, power) onto [0,1].
func (r Range) HigherBetter(v *float64) float64 {
	if v == nil || !r.Valid {
		return neutralFitness
	}
	return clamp01((*v - r.Min) / (r.Max - r.Min))
}

// Calibration carries per-attribute ranges for one candidate set.
type Calibration struct {
	Price   Range
	Mileage Range
	Year    Range
	Power   Range
}

// Calibrate computes min-max statistics over the candidates for the four
// scored attributes. Pure: the input is not mutated.
func Calibrate(candidates []models.Listing) Calibration {
	var price, mileage, year, power rangeAcc
	for _, c := range candidates {
		price.add(c.Price)
		mileage.add(c.Mileage)
		if c.Year != nil {
			y := float64(*c.Year)
			year.add(&y)
		}
		power.add(c.PowerHP)
	}
	return Calibration{
		Price:   price.done(),
		Mileage: mileage.done(),
		Year:    year.done(),
		Power:   power.done(),
	}
}

type rangeAcc struct {
	min, max float64
	seen     bool
}

func (a *rangeAcc) add(v *float64) {
	if v == nil {
		return
	}
	if !a.seen || *v < a.min {
		a.min = *v
	}
	if !a.seen || *v > a.max {
		a.max = *v
	}
	a.seen = true
}

func (a *rangeAcc) done() Range {
	if !a.seen || a.max <= a.min {
		return Range{}
	}
	return Range{Min: a.min, Max: a.max, Valid: true}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
