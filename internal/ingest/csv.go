package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/mkowalik/carscout/models"
	"github.com/mkowalik/carscout/utils"
)

// headerRename maps source CSV headers onto listing attribute names.
var headerRename = map[string]string{
	"Title":         "title",
	"Link":          "link",
	"Price":         "price",
	"Mileage":       "mileage",
	"Mileage[KM]":   "mileage_km",
	"Year":          "year",
	"power[HP]":     "power_hp",
	"capacity[cm3]": "capacity_cm3",
	"Fuel Type":     "fuel_type",
	"Gearbox":       "gearbox",
	"City":          "city",
	"Voivodeship":   "voivodeship",
	"other_info":    "other_info",
}

// numericJunk strips everything that is not a digit, minus, dot or comma
// before numeric parsing (scraped values carry units and thousands spaces).
var numericJunk = regexp.MustCompile(`[^0-9\-,\.]`)

// Seeder bulk-replaces the listing store from a CSV dump.
type Seeder struct {
	Store  ListingWriter
	Logger *log.Logger
}

// ListingWriter is the slice of the store the seeder needs.
type ListingWriter interface {
	ReplaceListings(ctx context.Context, rows []models.Listing) error
}

func NewSeeder(store ListingWriter) *Seeder {
	return &Seeder{
		Store:  store,
		Logger: log.New(log.Writer(), "[SEED] ", log.LstdFlags),
	}
}

// Run reads the CSV at path and replaces the entire store contents with its
// rows. limit > 0 caps the number of imported rows. A missing file is a fatal
// condition reported to the caller; row-level junk is cleaned, not rejected.
func (s *Seeder) Run(ctx context.Context, path string, limit int) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("ingest: cannot open data file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("ingest: reading header of %s: %w", path, err)
	}
	idx := columnIndex(header)

	var rows []models.Listing
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("ingest: reading %s: %w", path, err)
		}
		rows = append(rows, parseRow(idx, rec))
		if len(rows)%10000 == 0 {
			s.Logger.Printf("parsed %d rows", len(rows))
		}
		if limit > 0 && len(rows) >= limit {
			break
		}
	}

	if err := s.Store.ReplaceListings(ctx, rows); err != nil {
		return 0, fmt.Errorf("ingest: replacing listings: %w", err)
	}
	s.Logger.Printf("done, imported %d listings from %s", len(rows), path)
	return len(rows), nil
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if name, ok := headerRename[h]; ok {
			idx[name] = i
		} else {
			idx[h] = i
		}
	}
	return idx
}

func parseRow(idx map[string]int, rec []string) models.Listing {
	get := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	return models.Listing{
		Title:       optStr(get("title")),
		Link:        optStr(get("link")),
		Price:       cleanNumber(get("price")),
		Mileage:     cleanNumber(get("mileage")),
		MileageKM:   cleanNumber(get("mileage_km")),
		Year:        cleanYear(get("year")),
		PowerHP:     cleanNumber(get("power_hp")),
		CapacityCM3: cleanNumber(get("capacity_cm3")),
		FuelType:    optStr(get("fuel_type")),
		Gearbox:     optStr(get("gearbox")),
		City:        optStr(get("city")),
		Voivodeship: optStr(get("voivodeship")),
		OtherInfo:   optStr(get("other_info")),
	}
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func cleanNumber(s string) *float64 {
	return utils.ParseFloat(numericJunk.ReplaceAllString(s, ""))
}

func cleanYear(s string) *int {
	return utils.ParseInt(numericJunk.ReplaceAllString(s, ""))
}
