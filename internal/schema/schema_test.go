package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Resolve(t *testing.T) {
	t.Parallel()

	s, err := NewBuilder().
		Field("eventType", String).
		Field("nested.*", Int).
		Field("items.*.price", Float).
		Field("multiple.*.wildcards.*", Float).
		Field("adjacent.wildcard.*.*", String).
		Field("items.*.*", String).
		Field("plain.exact", Int).
		Build()
	require.NoError(t, err)

	tests := []struct {
		name   string
		key    string
		want   string
		wantOK bool
	}{
		{name: "exact", key: "eventType", want: "eventType", wantOK: true},
		{name: "exact dotted", key: "plain.exact", want: "plain.exact", wantOK: true},
		{name: "single wildcard", key: "nested.integer", want: "nested.*", wantOK: true},
		{name: "middle wildcard", key: "items.3.price", want: "items.*.price", wantOK: true},
		{name: "first declared wins", key: "items.3.price", want: "items.*.price", wantOK: true},
		{name: "later candidate", key: "items.3.name", want: "items.*.*", wantOK: true},
		{name: "two wildcards", key: "multiple.nested.wildcards.integer", want: "multiple.*.wildcards.*", wantOK: true},
		{name: "adjacent wildcards", key: "adjacent.wildcard.test.test", want: "adjacent.wildcard.*.*", wantOK: true},
		{name: "segment count differs", key: "items.3.price.usd", want: "items.3.price.usd", wantOK: false},
		{name: "literal mismatch", key: "multiple.a.other.b", want: "multiple.a.other.b", wantOK: false},
		{name: "no dot unknown", key: "unknown", want: "unknown", wantOK: false},
		{name: "wildcard is not matched by bare prefix", key: "nested", want: "nested", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := s.Resolve(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchema_SearchableSkipsWildcards(t *testing.T) {
	t.Parallel()

	s, err := NewBuilder().
		Field("title", String).
		Field("tags.*", String).
		Field("count", Int).
		Field("body", String, NotProjectable()).
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"title", "body"}, s.Searchable())
}
