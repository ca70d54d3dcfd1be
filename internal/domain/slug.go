package domain

import "strings"

var turkishFold = strings.NewReplacer( //nolint: gochecknoglobals
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ı", "i", "İ", "i",
	"ö", "o", "Ö", "o",
	"ş", "s", "Ş", "s",
	"ü", "u", "Ü", "u",
)

// Slugify lower-cases s, folds Turkish letters and joins alphanumeric runs with '-'.
func Slugify(s string) string {
	s = strings.ToLower(turkishFold.Replace(s))
	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ResolveSlug normalises explicit, or derives a slug from source when explicit
// is blank. An empty result is a validation error on "slug".
func ResolveSlug(explicit, source string) (string, error) {
	s := explicit
	if strings.TrimSpace(s) == "" {
		s = source
	}
	slug := Slugify(s)
	if slug == "" {
		return "", NewValidationError("slug", "must contain at least one letter or digit")
	}
	return slug, nil
}
