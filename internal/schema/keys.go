package schema

// Reserved key defaults.
const (
	DefaultSortKey       = "sort"
	DefaultLimitKey      = "limit"
	DefaultSkipKey       = "skip"
	DefaultSearchKey     = "search"
	DefaultProjectionKey = "proj"
)

// Keys names the reserved query keys. A reserved key is consumed by its
// extractor and never treated as a field or meta key.
type Keys struct {
	Sort       string `yaml:"sort" json:"sort"`
	Limit      string `yaml:"limit" json:"limit"`
	Skip       string `yaml:"skip" json:"skip"`
	Search     string `yaml:"search" json:"search"`
	Projection string `yaml:"projection" json:"projection"`
}

// DefaultKeys returns the default reserved key names.
func DefaultKeys() Keys {
	return Keys{
		Sort:       DefaultSortKey,
		Limit:      DefaultLimitKey,
		Skip:       DefaultSkipKey,
		Search:     DefaultSearchKey,
		Projection: DefaultProjectionKey,
	}
}

// WithDefaults returns a copy of k with empty names replaced by defaults.
func (k Keys) WithDefaults() Keys {
	d := DefaultKeys()
	if k.Sort == "" {
		k.Sort = d.Sort
	}
	if k.Limit == "" {
		k.Limit = d.Limit
	}
	if k.Skip == "" {
		k.Skip = d.Skip
	}
	if k.Search == "" {
		k.Search = d.Search
	}
	if k.Projection == "" {
		k.Projection = d.Projection
	}
	return k
}

// IsReserved reports whether key is one of the reserved names.
func (k Keys) IsReserved(key string) bool {
	return key == k.Sort || key == k.Limit || key == k.Skip ||
		key == k.Search || key == k.Projection
}

func (k Keys) named() [][2]string {
	return [][2]string{
		{"sort", k.Sort},
		{"limit", k.Limit},
		{"skip", k.Skip},
		{"search", k.Search},
		{"projection", k.Projection},
	}
}
