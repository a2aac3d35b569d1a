// In file: internal/version/version.go

// Package version centralizes the versioning for different logical components of the gateway.
//
// By including these version strings in our cache keys, we can automatically
// invalidate old, incorrect cached entries whenever a piece of underlying
// logic changes. For example, if we fix a formula and update Formulas from
// "v1.0" to "v1.1", all cache keys containing the old version string will no
// longer be matched, forcing the gateway to re-generate fresh responses.
package version

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComponentVersions holds the version strings for different logical parts of the application.
// Manually increment a version number here before you deploy a change to that component.
var ComponentVersions = struct {
	// Patterns should be updated whenever the intent keyword tables, the
	// parameter extraction patterns, or the region resolution tables change.
	Patterns string

	// Formulas should be updated whenever the math in any formula changes,
	// or when formulas are added or removed from the registry.
	Formulas string

	// Fetchers should be updated whenever a live-data source, its parsing,
	// or the static tax table changes.
	Fetchers string

	// PromptLogic should be updated whenever the classification or
	// explanation prompt templates change.
	PromptLogic string
}{
	Patterns:    "v1.0",
	Formulas:    "v1.0",
	Fetchers:    "v1.0",
	PromptLogic: "v1.0",
}

// GenerateVersionedCacheKey creates a consistent, version-aware key for caching.
//
// It combines a prefix, a hash of the input, and the current versions of all
// logical components, so that if the input or any underlying logic changes,
// a new cache key is generated and the old entry silently expires.
//
// Example output: "response_cache:a1b2c3d4...:pv1.0_fv1.0_dv1.0_lv1.0"
func GenerateVersionedCacheKey(prefix, input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	inputHash := hex.EncodeToString(hasher.Sum(nil))

	versionString := fmt.Sprintf("pv%s_fv%s_dv%s_lv%s",
		ComponentVersions.Patterns,
		ComponentVersions.Formulas,
		ComponentVersions.Fetchers,
		ComponentVersions.PromptLogic,
	)

	return fmt.Sprintf("%s:%s:%s", prefix, inputHash, versionString)
}
