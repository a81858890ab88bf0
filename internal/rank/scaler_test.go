package rank

import (
	"testing"

	"github.com/mkowalik/carscout/models"
)

func TestCalibrateComputesMinMaxPerAttribute(t *testing.T) {
	xs := []models.Listing{
		{Price: models.FloatPtr(10000), Mileage: models.FloatPtr(50000), Year: models.IntPtr(2018), PowerHP: models.FloatPtr(90)},
		{Price: models.FloatPtr(20000), Mileage: models.FloatPtr(10000), Year: models.IntPtr(2020), PowerHP: models.FloatPtr(120)},
		{}, // all fields missing, must be ignored
	}
	cal := Calibrate(xs)
	if !cal.Price.Valid || cal.Price.Min != 10000 || cal.Price.Max != 20000 {
		t.Fatalf("price range wrong: %+v", cal.Price)
	}
	if !cal.Mileage.Valid || cal.Mileage.Min != 10000 || cal.Mileage.Max != 50000 {
		t.Fatalf("mileage range wrong: %+v", cal.Mileage)
	}
	if !cal.Year.Valid || cal.Year.Min != 2018 || cal.Year.Max != 2020 {
		t.Fatalf("year range wrong: %+v", cal.Year)
	}
	if !cal.Power.Valid || cal.Power.Min != 90 || cal.Power.Max != 120 {
		t.Fatalf("power range wrong: %+v", cal.Power)
	}
}

func TestCalibrateZeroVarianceIsDegenerate(t *testing.T) {
	xs := []models.Listing{
		{Price: models.FloatPtr(50000)},
		{Price: models.FloatPtr(50000)},
		{Price: models.FloatPtr(50000)},
	}
	cal := Calibrate(xs)
	if cal.Price.Valid {
		t.Fatalf("expected degenerate price range, got %+v", cal.Price)
	}
	for _, x := range xs {
		if f := cal.Price.LowerBetter(x.Price); f != 0.5 {
			t.Fatalf("degenerate range must score 0.5, got %v", f)
		}
	}
}

func TestRangeMissingValueIsNeutral(t *testing.T) {
	r := Range{Min: 0, Max: 100, Valid: true}
	if f := r.LowerBetter(nil); f != 0.5 {
		t.Fatalf("missing value must score 0.5, got %v", f)
	}
	if f := r.HigherBetter(nil); f != 0.5 {
		t.Fatalf("missing value must score 0.5, got %v", f)
	}
}

func TestRangeFitnessIsClamped(t *testing.T) {
	r := Range{Min: 10, Max: 20, Valid: true}
	if f := r.LowerBetter(models.FloatPtr(5)); f != 1 {
		t.Fatalf("below-range value must clamp to 1, got %v", f)
	}
	if f := r.HigherBetter(models.FloatPtr(5)); f != 0 {
		t.Fatalf("below-range value must clamp to 0, got %v", f)
	}
}
