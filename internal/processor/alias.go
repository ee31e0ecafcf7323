package processor

import "github.com/vyrodovalexey/qproc/internal/schema"

// resolveAliases copies each present alias value to its canonical key unless
// the canonical key is already present. Existing keys are never overwritten.
func resolveAliases(query map[string]string, aliases []schema.AliasEntry) {
	for _, a := range aliases {
		v, ok := query[a.Alias]
		if !ok {
			continue
		}
		if _, exists := query[a.Canonical]; exists {
			continue
		}
		query[a.Canonical] = v
	}
}
