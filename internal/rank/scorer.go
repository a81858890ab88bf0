package rank

import (
	"math"

	"github.com/mkowalik/carscout/models"
)

// Completeness bonuses favour listings with richer data on near-ties. Scores
// may slightly exceed 1.0 because of them; callers accept that.
const (
	linkBonus  = 0.01
	priceBonus = 0.01
)

// Scorer computes a higher-is-better desirability score for one listing.
// Implementations are pure functions of (listing, parameters).
type Scorer interface {
	Score(l models.Listing) float64
}

// CalibratedScorer ranks listings relative to the current candidate set using
// min-max calibration, with per-attribute fitness sharpened by Tau.
type CalibratedScorer struct {
	Weights Weights // normalized and intensified
	Cal     Calibration
	Tau     float64 // sharpening exponent, >= 1
}

func (s CalibratedScorer) Score(l models.Listing) float64 {
	var year *float64
	if l.Year != nil {
		y := float64(*l.Year)
		year = &y
	}
	fPrice := s.sharpen(s.Cal.Price.LowerBetter(l.Price))
	fMileage := s.sharpen(s.Cal.Mileage.LowerBetter(l.Mileage))
	fYear := s.sharpen(s.Cal.Year.HigherBetter(year))
	fPower := s.sharpen(s.Cal.Power.HigherBetter(l.PowerHP))

	score := s.Weights.Price*fPrice +
		s.Weights.Mileage*fMileage +
		s.Weights.Year*fYear +
		s.Weights.Power*fPower
	return score + completenessBonus(l)
}

func (s CalibratedScorer) sharpen(f float64) float64 {
	if s.Tau <= 1 {
		return f
	}
	return math.Pow(f, s.Tau)
}

// Thresholds holds the explicit user limits scored by ThresholdScorer.
type Thresholds struct {
	PriceMax   *float64
	MileageMax *float64
	YearMin    *int
	PowerMin   *float64
}

// ThresholdWeights is the fixed vector of the absolute-threshold strategy
// (mileage dominant).
func ThresholdWeights() Weights {
	return Weights{Price: 0.25, Mileage: 0.50, Year: 0.15, Power: 0.10}
}

// ThresholdScorer scores listings against absolute user thresholds instead of
// set-relative calibration. A missing value or missing threshold contributes
// zero fitness for that attribute.
type ThresholdScorer struct {
	Weights     Weights
	Prefs       Thresholds
	CurrentYear int
}

func (s ThresholdScorer) Score(l models.Listing) float64 {
	var fPrice, fMileage, fYear, fPower float64

	if l.Price != nil && s.Prefs.PriceMax != nil {
		fPrice = clamp01(safeDiv(*s.Prefs.PriceMax-*l.Price, *s.Prefs.PriceMax))
	}
	if l.Mileage != nil && s.Prefs.MileageMax != nil {
		fMileage = clamp01(safeDiv(*s.Prefs.MileageMax-*l.Mileage, *s.Prefs.MileageMax))
	}
	if l.Year != nil && s.Prefs.YearMin != nil && *s.Prefs.YearMin != 0 {
		span := s.CurrentYear - *s.Prefs.YearMin
		if span < 1 {
			span = 1
		}
		fYear = clamp01(safeDiv(float64(*l.Year-*s.Prefs.YearMin), float64(span)))
	}
	if l.PowerHP != nil && s.Prefs.PowerMin != nil && *s.Prefs.PowerMin != 0 {
		scale := math.Max(10, *s.Prefs.PowerMin)
		fPower = clamp01(safeDiv(*l.PowerHP-*s.Prefs.PowerMin, scale))
	}

	score := s.Weights.Price*fPrice +
		s.Weights.Mileage*fMileage +
		s.Weights.Year*fYear +
		s.Weights.Power*fPower
	return score + completenessBonus(l)
}

func completenessBonus(l models.Listing) float64 {
	bonus := 0.0
	if l.Link != nil && *l.Link != "" {
		bonus += linkBonus
	}
	if l.Price != nil {
		bonus += priceBonus
	}
	return bonus
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
