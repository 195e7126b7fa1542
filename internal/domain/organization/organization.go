package organization

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cashdesk/backend/internal/domain/shared"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Organization is the tenancy boundary. Every other entity belongs to exactly one.
type Organization struct {
	shared.BaseEntity
	Name string
	Slug string
}

// Slugify lowercases s, collapses every run of characters outside [a-z0-9]
// into a single hyphen and trims hyphens from both ends.
//
//	"My Org!!"  -> "my-org"
//	"  a--b  "  -> "a-b"
func Slugify(s string) string {
	slug := nonSlugRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(slug, "-")
}

// NewOrganization creates an organization. The slug is derived from name when
// slug is empty.
func NewOrganization(name, slug string) (*Organization, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 120 {
		return nil, shared.NewValidationError("Organization name must be between 2 and 120 characters")
	}

	source := slug
	if strings.TrimSpace(source) == "" {
		source = name
	}
	slug = Slugify(source)
	if slug == "" {
		return nil, shared.NewValidationError("Organization slug cannot be derived from name")
	}

	return &Organization{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       slug,
	}, nil
}
