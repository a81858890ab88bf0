package rank

import (
	"fmt"
	"strings"

	"github.com/mkowalik/carscout/models"
)

// DedupPolicy selects how duplicate listings are identified.
type DedupPolicy string

const (
	// DedupLink removes duplicates by normalized link only; listings
	// without a link are always kept.
	DedupLink DedupPolicy = "link"
	// DedupComposite additionally collapses link-less listings by
	// title/price/year/mileage.
	DedupComposite DedupPolicy = "composite"
)

// NormalizeLink canonicalizes a listing link for identity comparison:
// surrounding whitespace trimmed, one trailing slash stripped, lowercased.
func NormalizeLink(link string) string {
	link = strings.TrimSpace(link)
	link = strings.TrimSuffix(link, "/")
	return strings.ToLower(link)
}

// Dedup returns the candidates with duplicates removed, keeping the first
// occurrence of each identity in its original position.
func Dedup(policy DedupPolicy, candidates []models.Listing) []models.Listing {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]models.Listing, 0, len(candidates))
	for _, c := range candidates {
		key, ok := dedupKey(policy, c)
		if !ok {
			out = append(out, c)
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func dedupKey(policy DedupPolicy, c models.Listing) (string, bool) {
	if c.Link != nil && strings.TrimSpace(*c.Link) != "" {
		return "link|" + NormalizeLink(*c.Link), true
	}
	if policy != DedupComposite {
		// Link-only policy never collapses link-less listings.
		return "", false
	}
	title := ""
	if c.Title != nil {
		title = strings.ToLower(strings.TrimSpace(*c.Title))
	}
	return fmt.Sprintf("nolink|%s|%s|%s|%s",
		title, intOrUnknown(c.Price), yearOrUnknown(c.Year), intOrUnknown(c.Mileage)), true
}

func intOrUnknown(v *float64) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d", int(*v))
}

func yearOrUnknown(v *int) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d", *v)
}
