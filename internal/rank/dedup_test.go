package rank

import (
	"testing"

	"github.com/mkowalik/carscout/models"
)

func TestDedupKeepsFirstOccurrenceByNormalizedLink(t *testing.T) {
	xs := []models.Listing{
		{ID: 1, Link: models.StrPtr("https://otomoto.pl/oferta/abc/")},
		{ID: 2, Link: models.StrPtr("  HTTPS://otomoto.pl/oferta/ABC ")},
		{ID: 3, Link: models.StrPtr("https://otomoto.pl/oferta/xyz")},
	}
	got := Dedup(DedupLink, xs)
	if len(got) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("expected survivors [1 3], got [%d %d]", got[0].ID, got[1].ID)
	}
}

func TestDedupIsIdempotent(t *testing.T) {
	xs := []models.Listing{
		{ID: 1, Link: models.StrPtr("https://a.pl/1")},
		{ID: 2, Link: models.StrPtr("https://a.pl/1/")},
		{ID: 3},
		{ID: 4, Title: models.StrPtr("Golf")},
	}
	once := Dedup(DedupComposite, xs)
	twice := Dedup(DedupComposite, once)
	if len(once) > len(xs) {
		t.Fatalf("dedup grew the input: %d > %d", len(once), len(xs))
	}
	if len(twice) != len(once) {
		t.Fatalf("dedup not idempotent: %d != %d", len(twice), len(once))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("order changed on second pass at %d", i)
		}
	}
}

func TestDedupLinkPolicyKeepsAllLinklessListings(t *testing.T) {
	xs := []models.Listing{
		{ID: 1, Title: models.StrPtr("Golf"), Price: models.FloatPtr(20000)},
		{ID: 2, Title: models.StrPtr("Golf"), Price: models.FloatPtr(20000)},
	}
	if got := Dedup(DedupLink, xs); len(got) != 2 {
		t.Fatalf("link policy must keep link-less listings, got %d of 2", len(got))
	}
}

func TestDedupCompositeCollapsesLinklessByFields(t *testing.T) {
	xs := []models.Listing{
		{ID: 1, Title: models.StrPtr(" Golf "), Price: models.FloatPtr(20000.7), Year: models.IntPtr(2018), Mileage: models.FloatPtr(90000)},
		{ID: 2, Title: models.StrPtr("golf"), Price: models.FloatPtr(20000.2), Year: models.IntPtr(2018), Mileage: models.FloatPtr(90000.9)},
		{ID: 3, Title: models.StrPtr("golf"), Price: models.FloatPtr(21000), Year: models.IntPtr(2018), Mileage: models.FloatPtr(90000)},
		{ID: 4, Title: models.StrPtr("golf"), Year: models.IntPtr(2018), Mileage: models.FloatPtr(90000)},
	}
	got := Dedup(DedupComposite, xs)
	if len(got) != 3 {
		t.Fatalf("expected 3 survivors, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 3 || got[2].ID != 4 {
		t.Fatalf("unexpected survivors: %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}
}
