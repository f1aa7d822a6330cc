package domain

import (
	"math"
	"net/url"
	"strings"
	"time"
	"unicode"
)

type HolidayPackage struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	URLSlug          string    `json:"url_slug"`
	Description      string    `json:"description"`
	MaxCapacity      int       `json:"max_capacity"`
	CostPrice        float64   `json:"cost_price"`
	MarkupPercentage float64   `json:"markup_percentage"`
	SellingPrice     float64   `json:"selling_price"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PackageKey is the natural key a booking submission uses to name its package.
type PackageKey struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Slugify lowercases the title and joins its words with "-". A "/" separates words
// so the slug always fits in a single path segment.
func Slugify(title string) string {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return r == '/' || unicode.IsSpace(r)
	})

	return strings.Join(words, "-")
}

// EscapeSlug is the form clients put in URLs; routes match on the decoded slug.
func EscapeSlug(slug string) string {
	return url.PathEscape(slug)
}

// PriceWithMarkup rounds to cents.
func PriceWithMarkup(cost, markupPercentage float64) float64 {
	return math.Round(cost*(1+markupPercentage/100)*100) / 100
}

func (p *HolidayPackage) Derive() {
	p.Slug = Slugify(p.Title)
	p.URLSlug = EscapeSlug(p.Slug)
	p.SellingPrice = PriceWithMarkup(p.CostPrice, p.MarkupPercentage)
}
