package models

// Listing is one car advertisement record. Every field other than ID may be
// absent in the source data; consumers treat nil as "no information".
type Listing struct {
	ID          int64    `json:"id"`
	Title       *string  `json:"title,omitempty"`
	Link        *string  `json:"link,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Mileage     *float64 `json:"mileage,omitempty"`
	MileageKM   *float64 `json:"mileage_km,omitempty"`
	Year        *int     `json:"year,omitempty"`
	PowerHP     *float64 `json:"power_hp,omitempty"`
	CapacityCM3 *float64 `json:"capacity_cm3,omitempty"`
	FuelType    *string  `json:"fuel_type,omitempty"`
	Gearbox     *string  `json:"gearbox,omitempty"`
	City        *string  `json:"city,omitempty"`
	Voivodeship *string  `json:"voivodeship,omitempty"`
	OtherInfo   *string  `json:"other_info,omitempty"`
}

// Filter holds the optional search predicates. A nil/empty field means no
// constraint on that attribute.
type Filter struct {
	FuelType    string
	Gearbox     string
	Voivodeship string
	PriceMin    *float64
	PriceMax    *float64
	YearMin     *int
	YearMax     *int
	MileageMax  *float64
	PowerMin    *float64
	Limit       int
}

// DefaultSearchLimit bounds how many candidates a single query may return.
const DefaultSearchLimit = 200

// ScoredListing pairs a listing with its computed desirability score.
// The listing is embedded so its fields serialize flat next to the score.
type ScoredListing struct {
	Listing
	Score float64 `json:"score"`
}

// ResultPage is the payload handed to the presentation layer after a search.
type ResultPage struct {
	Results []ScoredListing    `json:"results"`
	Top     []ScoredListing    `json:"top"`
	Weights map[string]float64 `json:"weights,omitempty"`
	Summary string             `json:"summary,omitempty"`
}

func StrPtr(s string) *string     { return &s }
func FloatPtr(f float64) *float64 { return &f }
func IntPtr(i int) *int           { return &i }
