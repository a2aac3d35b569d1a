// In file: internal/version/version_test.go
package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateVersionedCacheKey(t *testing.T) {
	key := GenerateVersionedCacheKey("response_cache", "what is gst in india")

	assert.True(t, strings.HasPrefix(key, "response_cache:"))
	assert.Equal(t, key, GenerateVersionedCacheKey("response_cache", "what is gst in india"),
		"the key must be deterministic")
	assert.NotEqual(t, key, GenerateVersionedCacheKey("response_cache", "what is vat in the uk"),
		"different inputs must not collide")
	assert.NotContains(t, key, "what is gst", "the raw input is hashed, never embedded")
}

func TestGenerateVersionedCacheKeyChangesWithComponentVersion(t *testing.T) {
	before := GenerateVersionedCacheKey("response_cache", "q")

	old := ComponentVersions.Patterns
	ComponentVersions.Patterns = "v9.9-test"
	defer func() { ComponentVersions.Patterns = old }()

	after := GenerateVersionedCacheKey("response_cache", "q")
	assert.NotEqual(t, before, after, "bumping any component version must invalidate old keys")
}
