package util

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id, err := GenerateOrderID(now)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^CHT-1700000000123-[0-9A-Z]{5}$`), id)

	other, err := GenerateOrderID(now)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestEmailHelpers(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
	assert.True(t, IsValidEmail("a@x.com"))
	assert.False(t, IsValidEmail("a@x"))
	assert.False(t, IsValidEmail("a x@y.com"))
	assert.False(t, IsValidEmail(""))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "hello world", SanitizeText("  <b>hello</b> <script>alert(1)</script>world "))
	assert.Equal(t, "Tom & Jerry", SanitizeText("Tom & Jerry"))
	assert.Equal(t, "", SanitizeText("   "))
}
