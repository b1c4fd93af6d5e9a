package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "sparkle-cleaning-co", Slugify("Sparkle Cleaning Co."))
	assert.Equal(t, "deep-clean", Slugify("  Deep   Clean!! "))
}

func TestUniqueSlug(t *testing.T) {
	a := UniqueSlug("Sparkle")
	b := UniqueSlug("Sparkle")
	assert.True(t, strings.HasPrefix(a, "sparkle-"))
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(UniqueSlug("!!!"), "org-"))
}

func TestGenerateDocumentNo(t *testing.T) {
	at := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	no := GenerateDocumentNo("inv-", at)
	require.True(t, strings.HasPrefix(no, "INV-202603-"))
	assert.Len(t, no, len("INV-202603-")+8)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
