package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Aa1!aaaa")
	require.NoError(t, err)
	assert.NotEqual(t, "Aa1!aaaa", hash)

	assert.True(t, CheckPassword(hash, "Aa1!aaaa"))
	assert.False(t, CheckPassword(hash, "Aa1!aaab"))
	assert.False(t, CheckPassword("", "Aa1!aaaa"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello", Sanitize("  <script>alert(1)</script>hello "))
	assert.Equal(t, "<b>bold</b>", Sanitize("<b>bold</b>"))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", SanitizeText(" Tom & Jerry "))
	assert.Equal(t, "bold title", SanitizeText("<b>bold</b> title"))
	assert.Equal(t, "hi", SanitizeText("<script>alert(1)</script>hi"))
	assert.Equal(t, `"quoted" <3`, SanitizeText(`"quoted" <3`))
}
