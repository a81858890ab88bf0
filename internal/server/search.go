package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkowalik/carscout/config"
	"github.com/mkowalik/carscout/internal/rank"
	"github.com/mkowalik/carscout/internal/store"
	"github.com/mkowalik/carscout/models"
	"github.com/mkowalik/carscout/utils"
)

// SearchHandler serves the manual filter form and the ranked result page.
type SearchHandler struct {
	Store   *store.Store
	Ranking config.RankingConfig
}

func (h *SearchHandler) Register(e *echo.Echo) {
	e.GET("/", h.index)
	e.POST("/results", h.results)
}

func (h *SearchHandler) index(c echo.Context) error {
	ctx := c.Request().Context()
	fuelTypes, err := h.Store.DistinctValues(ctx, "fuel_type")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	gearboxes, err := h.Store.DistinctValues(ctx, "gearbox")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	voivodeships, err := h.Store.DistinctValues(ctx, "voivodeship")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Render(http.StatusOK, "index.html", map[string]interface{}{
		"FuelTypes":    fuelTypes,
		"Gearboxes":    gearboxes,
		"Voivodeships": voivodeships,
		"Weights":      h.Ranking.DefaultWeights,
	})
}

func (h *SearchHandler) results(c echo.Context) error {
	ctx := c.Request().Context()
	searchesTotal.Inc()

	filter := models.Filter{
		FuelType:    c.FormValue("fuel_type"),
		Gearbox:     c.FormValue("gearbox"),
		Voivodeship: c.FormValue("voivodeship"),
		PriceMin:    utils.ParseFloat(c.FormValue("price_min")),
		PriceMax:    utils.ParseFloat(c.FormValue("price_max")),
		YearMin:     utils.ParseInt(c.FormValue("year_min")),
		YearMax:     utils.ParseInt(c.FormValue("year_max")),
		MileageMax:  utils.ParseFloat(c.FormValue("mileage_max")),
		PowerMin:    utils.ParseFloat(c.FormValue("power_min")),
	}

	candidates, err := h.Store.Search(ctx, filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	candidates = rank.Dedup(rank.DedupPolicy(h.Ranking.DedupPolicy), candidates)

	raw := rank.Weights{
		Price:   utils.ParseWeight(c.FormValue("w_price")),
		Mileage: utils.ParseWeight(c.FormValue("w_mileage")),
		Year:    utils.ParseWeight(c.FormValue("w_year")),
		Power:   utils.ParseWeight(c.FormValue("w_power")),
	}
	if raw.Sum() <= 0 {
		raw = rank.WeightsFromMap(h.Ranking.DefaultWeights)
	}
	scorer, weights := h.buildScorer(raw, filter, candidates)

	ranked := rank.Rank(candidates, scorer)
	page := models.ResultPage{
		Results: rank.Truncate(ranked, h.Ranking.ResultLimit),
		Top:     rank.Truncate(ranked, h.Ranking.TopLimit),
		Weights: weights.Map(),
	}
	return c.Render(http.StatusOK, "results.html", map[string]interface{}{
		"Page":    page,
		"RawW":    raw.Map(),
		"Matched": len(candidates),
	})
}

// buildScorer assembles the configured scoring strategy for one request.
// The calibrated strategy intensifies the weights and sharpens fitness by
// the same intensity-derived exponent; the threshold strategy scores the
// explicit form limits with its fixed mileage-dominant vector.
func (h *SearchHandler) buildScorer(raw rank.Weights, filter models.Filter, candidates []models.Listing) (rank.Scorer, rank.Weights) {
	if h.Ranking.Strategy == "threshold" {
		w := rank.ThresholdWeights()
		return rank.ThresholdScorer{
			Weights: w,
			Prefs: rank.Thresholds{
				PriceMax:   filter.PriceMax,
				MileageMax: filter.MileageMax,
				YearMin:    filter.YearMin,
				PowerMin:   filter.PowerMin,
			},
			CurrentYear: h.Ranking.CurrentYear,
		}, w
	}
	factor := h.Ranking.Factor()
	w := raw.Normalize().Intensify(factor)
	return rank.CalibratedScorer{
		Weights: w,
		Cal:     rank.Calibrate(candidates),
		Tau:     factor,
	}, w
}
