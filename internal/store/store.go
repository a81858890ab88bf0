package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/lib/pq"
	"github.com/mkowalik/carscout/models"
)

type Store struct {
	DB *sql.DB
}

// DistinctLimit bounds option-list enumeration for the filter form.
const DistinctLimit = 200

// distinctColumns whitelists the categorical columns DistinctValues may
// enumerate; anything else is rejected before touching SQL.
var distinctColumns = map[string]struct{}{
	"fuel_type":   {},
	"gearbox":     {},
	"city":        {},
	"voivodeship": {},
}

func New(ctx context.Context) (*Store, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		host := getenvDefault("POSTGRES_HOST", "localhost")
		port := getenvDefault("POSTGRES_PORT", "5432")
		user := os.Getenv("POSTGRES_USER")
		pass := os.Getenv("POSTGRES_PASSWORD")
		db := os.Getenv("POSTGRES_DB")
		ssl := getenvDefault("POSTGRES_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, ssl)
	}
	return NewWithDSN(ctx, dsn)
}

// NewWithDSN constructs the Store using an explicit Postgres DSN
func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

// ReplaceListings clears the whole listings table and bulk-inserts the fresh
// rows in one transaction. This is the only write path: listings are never
// mutated or individually deleted.
func (s *Store) ReplaceListings(ctx context.Context, rows []models.Listing) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM car_listings`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("car_listings",
		"title", "link", "price", "mileage", "mileage_km", "year",
		"power_hp", "capacity_cm3", "fuel_type", "gearbox", "city",
		"voivodeship", "other_info"))
	if err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			nullStr(r.Title), nullStr(r.Link), nullFloat(r.Price),
			nullFloat(r.Mileage), nullFloat(r.MileageKM), nullInt(r.Year),
			nullFloat(r.PowerHP), nullFloat(r.CapacityCM3), nullStr(r.FuelType),
			nullStr(r.Gearbox), nullStr(r.City), nullStr(r.Voivodeship),
			nullStr(r.OtherInfo)); err != nil {
			_ = stmt.Close()
			return err
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return err
	}
	if err := stmt.Close(); err != nil {
		return err
	}
	return tx.Commit()
}

// Search returns listings matching all supplied (non-nil) filter predicates.
// Order is unspecified; the result is bounded by Filter.Limit, defaulting to
// models.DefaultSearchLimit.
func (s *Store) Search(ctx context.Context, f models.Filter) ([]models.Listing, error) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, v interface{}) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.FuelType != "" {
		add("fuel_type = $%d", f.FuelType)
	}
	if f.Gearbox != "" {
		add("gearbox = $%d", f.Gearbox)
	}
	if f.Voivodeship != "" {
		add("voivodeship = $%d", f.Voivodeship)
	}
	if f.PriceMin != nil {
		add("price >= $%d", *f.PriceMin)
	}
	if f.PriceMax != nil {
		add("price <= $%d", *f.PriceMax)
	}
	if f.YearMin != nil {
		add("year >= $%d", *f.YearMin)
	}
	if f.YearMax != nil {
		add("year <= $%d", *f.YearMax)
	}
	if f.MileageMax != nil {
		add("mileage <= $%d", *f.MileageMax)
	}
	if f.PowerMin != nil {
		add("power_hp >= $%d", *f.PowerMin)
	}

	q := `SELECT id, title, link, price, mileage, mileage_km, year, power_hp, capacity_cm3, fuel_type, gearbox, city, voivodeship, other_info FROM car_listings`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = models.DefaultSearchLimit
	}
	args = append(args, limit)
	q += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// DistinctValues enumerates the sorted non-null distinct values of one
// categorical column, for populating filter option lists.
func (s *Store) DistinctValues(ctx context.Context, column string) ([]string, error) {
	if _, ok := distinctColumns[column]; !ok {
		return nil, fmt.Errorf("column %q not enumerable", column)
	}
	q := fmt.Sprintf(`SELECT DISTINCT %s FROM car_listings WHERE %s IS NOT NULL ORDER BY %s LIMIT %d`,
		column, column, column, DistinctLimit)
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Count returns the number of stored listings.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM car_listings`).Scan(&n)
	return n, err
}

func scanListing(rows *sql.Rows) (models.Listing, error) {
	var (
		l           models.Listing
		title       sql.NullString
		link        sql.NullString
		price       sql.NullFloat64
		mileage     sql.NullFloat64
		mileageKM   sql.NullFloat64
		year        sql.NullInt64
		powerHP     sql.NullFloat64
		capacityCM3 sql.NullFloat64
		fuelType    sql.NullString
		gearbox     sql.NullString
		city        sql.NullString
		voivodeship sql.NullString
		otherInfo   sql.NullString
	)
	if err := rows.Scan(&l.ID, &title, &link, &price, &mileage, &mileageKM, &year,
		&powerHP, &capacityCM3, &fuelType, &gearbox, &city, &voivodeship, &otherInfo); err != nil {
		return models.Listing{}, err
	}
	l.Title = strPtr(title)
	l.Link = strPtr(link)
	l.Price = floatPtr(price)
	l.Mileage = floatPtr(mileage)
	l.MileageKM = floatPtr(mileageKM)
	if year.Valid {
		y := int(year.Int64)
		l.Year = &y
	}
	l.PowerHP = floatPtr(powerHP)
	l.CapacityCM3 = floatPtr(capacityCM3)
	l.FuelType = strPtr(fuelType)
	l.Gearbox = strPtr(gearbox)
	l.City = strPtr(city)
	l.Voivodeship = strPtr(voivodeship)
	l.OtherInfo = strPtr(otherInfo)
	return l, nil
}

func strPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullStr(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return int64(*v)
}
