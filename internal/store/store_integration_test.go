package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mkowalik/carscout/internal/store"
	"github.com/mkowalik/carscout/models"
)

func TestStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		tcPostgres.WithDatabase("carscout"),
		tcPostgres.WithUsername("carscout"),
		tcPostgres.WithPassword("carscout"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("5432/tcp")),
	)
	if err != nil {
		t.Fatalf("postgres container: %v", err)
	}
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	if err != nil {
		t.Fatalf("postgres host: %v", err)
	}
	port, err := pgC.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://carscout:carscout@%s:%s/carscout?sslmode=disable", host, port.Port())
	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		t.Fatalf("migrate init: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("apply migrations: %v", err)
	}

	st, err := store.NewWithDSN(ctx, dsn)
	if err != nil {
		t.Fatalf("store init: %v", err)
	}
	defer st.DB.Close()

	rows := []models.Listing{
		{
			Title:       models.StrPtr("Skoda Octavia 1.6 TDI"),
			Link:        models.StrPtr("https://example.com/octavia"),
			Price:       models.FloatPtr(32000),
			Mileage:     models.FloatPtr(150000),
			MileageKM:   models.FloatPtr(150000),
			Year:        models.IntPtr(2016),
			PowerHP:     models.FloatPtr(110),
			FuelType:    models.StrPtr("Diesel"),
			Gearbox:     models.StrPtr("Manualna"),
			City:        models.StrPtr("Kraków"),
			Voivodeship: models.StrPtr("małopolskie"),
		},
		{
			Title:    models.StrPtr("Toyota Yaris"),
			Price:    models.FloatPtr(45000),
			Year:     models.IntPtr(2021),
			FuelType: models.StrPtr("Benzyna"),
			Gearbox:  models.StrPtr("Manualna"),
		},
		{
			Title: models.StrPtr("No details at all"),
		},
	}
	if err := st.ReplaceListings(ctx, rows); err != nil {
		t.Fatalf("replace listings: %v", err)
	}

	n, err := st.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows got %d", n)
	}

	got, err := st.Search(ctx, models.Filter{FuelType: "Diesel", PriceMax: models.FloatPtr(40000)})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Title == nil || *got[0].Title != "Skoda Octavia 1.6 TDI" {
		t.Fatalf("unexpected search result: %+v", got)
	}
	if got[0].Year == nil || *got[0].Year != 2016 {
		t.Fatalf("year not round-tripped: %+v", got[0])
	}

	// Listings with a NULL in a filtered column never match that predicate.
	got, err = st.Search(ctx, models.Filter{YearMin: models.IntPtr(2000)})
	if err != nil {
		t.Fatalf("search by year: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows with a year got %d", len(got))
	}

	fuels, err := st.DistinctValues(ctx, "fuel_type")
	if err != nil {
		t.Fatalf("distinct fuel types: %v", err)
	}
	if len(fuels) != 2 || fuels[0] != "Benzyna" || fuels[1] != "Diesel" {
		t.Fatalf("unexpected fuel types: %v", fuels)
	}

	// A second replace fully supersedes the previous snapshot.
	if err := st.ReplaceListings(ctx, rows[:1]); err != nil {
		t.Fatalf("second replace: %v", err)
	}
	n, err = st.Count(ctx)
	if err != nil {
		t.Fatalf("count after replace: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row after replace got %d", n)
	}
}
