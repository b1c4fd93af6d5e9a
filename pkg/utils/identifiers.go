package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	return slug.Make(s)
}

// UniqueSlug appends a short random suffix so two tenants with the same
// business name still get distinct subdomains.
func UniqueSlug(s string) string {
	base := Slugify(s)
	if base == "" {
		base = "org"
	}
	return base + "-" + strings.ToLower(uuid.NewString()[:6])
}

// GenerateDocumentNo builds numbers like INV-202603-1A2B3C4D
func GenerateDocumentNo(prefix string, at time.Time) string {
	prefix = strings.TrimRight(strings.ToUpper(prefix), "-")
	if prefix == "" {
		prefix = "DOC"
	}
	return fmt.Sprintf("%s-%s-%s", prefix, at.Format("200601"), strings.ToUpper(uuid.NewString()[:8]))
}
