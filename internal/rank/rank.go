package rank

import (
	"math"
	"sort"

	"github.com/mkowalik/carscout/models"
)

// missingYear sorts listings without a year below any real year.
const missingYear = math.MinInt32

// Rank scores every candidate and returns them sorted by descending score.
// Ties break by ascending mileage, then ascending price, then descending
// year; missing values sort as worst. The sort is stable, so equal listings
// keep their input order.
func Rank(candidates []models.Listing, scorer Scorer) []models.ScoredListing {
	scored := make([]models.ScoredListing, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, models.ScoredListing{Listing: c, Score: scorer.Score(c)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		am, bm := floatOrInf(a.Listing.Mileage), floatOrInf(b.Listing.Mileage)
		if am != bm {
			return am < bm
		}
		ap, bp := floatOrInf(a.Listing.Price), floatOrInf(b.Listing.Price)
		if ap != bp {
			return ap < bp
		}
		return yearOrMissing(a.Listing.Year) > yearOrMissing(b.Listing.Year)
	})
	return scored
}

// Truncate caps the ranked sequence to at most n entries. Always called after
// the full sort, never before.
func Truncate(scored []models.ScoredListing, n int) []models.ScoredListing {
	if n < 0 || n >= len(scored) {
		return scored
	}
	return scored[:n]
}

func floatOrInf(v *float64) float64 {
	if v == nil {
		return math.Inf(1)
	}
	return *v
}

func yearOrMissing(v *int) int {
	if v == nil {
		return missingYear
	}
	return *v
}
