package processor

import "github.com/vyrodovalexey/qproc/internal/schema"

// injectDefaults sets every default whose name is absent from target.
// Generators run on each call.
func injectDefaults(target map[string]interface{}, defaults []schema.DefaultEntry) {
	for _, d := range defaults {
		if _, ok := target[d.Name]; ok {
			continue
		}
		target[d.Name] = d.Value()
	}
}
